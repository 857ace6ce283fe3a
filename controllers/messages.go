package controllers

const (
	suggestionFailedMessage   = "Failed to get suggestions. Please try again."
	unexpectedErrorMessage    = "An unexpected error occurred. Please try again."
	supersededMessage         = "This request was replaced by a newer one."
	invalidInputMessage       = "Invalid input"
	invalidRequestBodyMessage = "Invalid request body"
	imageNotReadyMessage      = "Image is not ready yet."

	ratingRequiredTitle   = "Rating required"
	ratingRequiredMessage = "Please rate the suggestion before submitting feedback."

	feedbackSubmittedTitle   = "Feedback Submitted"
	feedbackSubmittedMessage = "Thank you for helping us improve!"
	feedbackFailedMessage    = "Failed to submit feedback. Please try again."
	feedbackAlreadySent      = "Feedback was already submitted for this suggestion."
	noActiveSuggestion       = "There is no suggestion to rate. Please request new suggestions."
)
