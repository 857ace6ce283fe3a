package board

import (
	"testing"

	"headshotstyler/models"
	"headshotstyler/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var engineerRequest = models.StyleRequest{Role: "Software Engineer", StylePreferences: "modern minimalist"}

var engineerSuggestion = models.StyleSuggestion{
	ClothingSuggestions: "Navy blazer\nWhite shirt\nChinos",
	Reasoning:           "Clean and modern.",
}

func TestSessionStartsIdle(t *testing.T) {
	snap := NewSession("s1").Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Empty(t, snap.Items)
	assert.NotNil(t, snap.Items)
	assert.False(t, snap.Complete)
}

func TestSessionSuccessFlow(t *testing.T) {
	s := NewSession("s1")
	seq := s.Begin(engineerRequest)
	assert.Equal(t, StateLoading, s.Snapshot().State)

	items, ok := s.Succeed(seq, engineerSuggestion)
	require.True(t, ok)
	require.Len(t, items, 3)
	for i, item := range items {
		assert.Equal(t, i, item.Index)
		assert.Equal(t, ItemPending, item.Status)
	}
	assert.Equal(t, "navy blazer", items[0].Hint)

	snap := s.Snapshot()
	assert.Equal(t, StateSuggested, snap.State)
	assert.Equal(t, "Clean and modern.", snap.Suggestion.Reasoning)
	assert.False(t, snap.Complete)

	assert.True(t, s.ResolveItem(seq, 0, "data:image/png;base64,AA=="))
	assert.True(t, s.FailItem(seq, 1))
	assert.True(t, s.ResolveItem(seq, 2, "data:image/png;base64,AQ=="))

	snap = s.Snapshot()
	assert.True(t, snap.Complete)
	assert.Equal(t, ItemReady, snap.Items[0].Status)
	assert.Equal(t, ItemFailed, snap.Items[1].Status)
	assert.Equal(t, services.PlaceholderImageURL, snap.Items[1].ImageURL)
	assert.True(t, snap.Items[1].Placeholder)
	assert.Equal(t, StateSuggested, snap.State)
}

func TestSessionItemsSettleOnce(t *testing.T) {
	s := NewSession("s1")
	seq := s.Begin(engineerRequest)
	_, ok := s.Succeed(seq, engineerSuggestion)
	require.True(t, ok)

	require.True(t, s.FailItem(seq, 0))
	assert.False(t, s.ResolveItem(seq, 0, "data:image/png;base64,AA=="))
	assert.Equal(t, services.PlaceholderImageURL, s.Snapshot().Items[0].ImageURL)

	assert.False(t, s.ResolveItem(seq, 5, "x"))
	assert.False(t, s.ResolveItem(seq, -1, "x"))
}

func TestSessionFailureClearsSuggestion(t *testing.T) {
	s := NewSession("s1")
	seq := s.Begin(engineerRequest)
	_, ok := s.Succeed(seq, engineerSuggestion)
	require.True(t, ok)

	seq = s.Begin(engineerRequest)
	snap := s.Snapshot()
	assert.Equal(t, StateLoading, snap.State)
	assert.Nil(t, snap.Suggestion)
	assert.Empty(t, snap.Items)

	require.True(t, s.Fail(seq, "Failed to get suggestions. Please try again."))
	snap = s.Snapshot()
	assert.Equal(t, StateError, snap.State)
	assert.Nil(t, snap.Suggestion)
	assert.Empty(t, snap.Items)
	assert.Equal(t, "Failed to get suggestions. Please try again.", snap.Error)

	_, _, _, active := s.Active()
	assert.False(t, active)
}

func TestSessionDiscardsSupersededWrites(t *testing.T) {
	s := NewSession("s1")
	first := s.Begin(engineerRequest)
	second := s.Begin(models.StyleRequest{Role: "Designer", StylePreferences: "bold and colorful"})
	assert.Greater(t, second, first)
	assert.False(t, s.IsActive(first))

	_, ok := s.Succeed(first, engineerSuggestion)
	assert.False(t, ok)
	assert.False(t, s.Fail(first, "late failure"))
	assert.Equal(t, StateLoading, s.Snapshot().State)

	items, ok := s.Succeed(second, models.StyleSuggestion{ClothingSuggestions: "- Red jacket", Reasoning: "Bold."})
	require.True(t, ok)
	require.Len(t, items, 1)

	assert.False(t, s.ResolveItem(first, 0, "stale"))
	assert.Equal(t, ItemPending, s.Snapshot().Items[0].Status)
	assert.Equal(t, "Designer", s.Snapshot().Request.Role)
}

func TestSessionEmptySuggestionIsComplete(t *testing.T) {
	s := NewSession("s1")
	seq := s.Begin(engineerRequest)
	items, ok := s.Succeed(seq, models.StyleSuggestion{ClothingSuggestions: "\n\n", Reasoning: "Nothing fits."})
	require.True(t, ok)
	assert.Empty(t, items)

	snap := s.Snapshot()
	assert.Equal(t, StateSuggested, snap.State)
	assert.True(t, snap.Complete)
}

func TestSessionFeedbackSubmittedOnce(t *testing.T) {
	s := NewSession("s1")
	seq := s.Begin(engineerRequest)
	assert.False(t, s.MarkFeedbackSubmitted(seq), "no suggestion yet")

	_, ok := s.Succeed(seq, engineerSuggestion)
	require.True(t, ok)

	activeSeq, req, suggestion, active := s.Active()
	require.True(t, active)
	assert.Equal(t, seq, activeSeq)
	assert.Equal(t, "Software Engineer", req.Role)
	assert.Equal(t, engineerSuggestion.ClothingSuggestions, suggestion.ClothingSuggestions)

	assert.True(t, s.MarkFeedbackSubmitted(seq))
	assert.False(t, s.MarkFeedbackSubmitted(seq))
	assert.True(t, s.FeedbackSubmitted())

	// a new request reopens the feedback form
	next := s.Begin(engineerRequest)
	assert.False(t, s.FeedbackSubmitted())
	assert.False(t, s.MarkFeedbackSubmitted(seq))
	_, ok = s.Succeed(next, engineerSuggestion)
	require.True(t, ok)
	assert.True(t, s.MarkFeedbackSubmitted(next))
}

func TestSessionReopenFeedback(t *testing.T) {
	s := NewSession("s1")
	seq := s.Begin(engineerRequest)
	_, ok := s.Succeed(seq, engineerSuggestion)
	require.True(t, ok)

	require.True(t, s.MarkFeedbackSubmitted(seq))
	s.ReopenFeedback(seq)
	assert.False(t, s.FeedbackSubmitted())
	assert.True(t, s.MarkFeedbackSubmitted(seq))

	// stale sequence numbers leave the flag alone
	s.ReopenFeedback(seq + 10)
	assert.True(t, s.FeedbackSubmitted())
}

func TestSessionImageOnlyForSettledItems(t *testing.T) {
	s := NewSession("s1")
	seq := s.Begin(engineerRequest)
	_, ok := s.Succeed(seq, engineerSuggestion)
	require.True(t, ok)

	_, ok = s.Image(seq, 0)
	assert.False(t, ok)

	require.True(t, s.ResolveItem(seq, 0, "data:image/png;base64,AA=="))
	require.True(t, s.FailItem(seq, 1))

	item, ok := s.Image(seq, 0)
	require.True(t, ok)
	assert.Equal(t, "data:image/png;base64,AA==", item.ImageURL)

	item, ok = s.Image(seq, 1)
	require.True(t, ok)
	assert.True(t, item.Placeholder)

	_, ok = s.Image(seq, 3)
	assert.False(t, ok)
	_, ok = s.Image(seq+1, 0)
	assert.False(t, ok)

	s.Begin(engineerRequest)
	_, ok = s.Image(seq, 0)
	assert.False(t, ok)
}

func TestSnapshotWithoutImages(t *testing.T) {
	s := NewSession("s1")
	seq := s.Begin(engineerRequest)
	_, ok := s.Succeed(seq, engineerSuggestion)
	require.True(t, ok)
	require.True(t, s.ResolveItem(seq, 0, "data:image/png;base64,AA=="))
	require.True(t, s.FailItem(seq, 1))

	full := s.Snapshot()
	lite := full.WithoutImages()
	for _, item := range lite.Items {
		assert.Empty(t, item.ImageURL)
	}
	assert.Equal(t, ItemReady, lite.Items[0].Status)
	assert.True(t, lite.Items[1].Placeholder)
	assert.Equal(t, full.Complete, lite.Complete)

	// the original snapshot keeps its data
	assert.Equal(t, "data:image/png;base64,AA==", full.Items[0].ImageURL)
}
