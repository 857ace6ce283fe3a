package controllers

import (
	"context"
	"html/template"
	"net/http"
	"strings"
	"time"

	"headshotstyler/board"
	"headshotstyler/metrics"
	"headshotstyler/models"
	"headshotstyler/services"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type Stylist interface {
	SuggestClothingStyles(ctx context.Context, req models.StyleRequest) (*models.StyleSuggestion, error)
	GenerateClothingImage(ctx context.Context, description string) (*models.GeneratedImage, error)
}

type SuggestStylesIn struct {
	Role             string  `json:"role" form:"role" validate:"required,min=2,max=100"`
	StylePreferences string  `json:"style_preferences" form:"style_preferences" validate:"required,min=10,max=1000"`
	Industry         *string `json:"industry" form:"industry" validate:"omitempty,min=2,max=100"`
}

type GenerateImageIn struct {
	ClothingDescription string `json:"clothing_description" form:"clothing_description" validate:"required,max=500"`
}

type GenerateImageResponse struct {
	ImageURL    string `json:"imageUrl"`
	Placeholder bool   `json:"placeholder"`
}

type StylesController struct {
	Stylist           Stylist
	Populator         *board.ImagePopulator
	SuggestionTimeout time.Duration
	ImageTimeout      time.Duration
	Logger            *zap.Logger
}

func (controller *StylesController) StyleRoutes(g *echo.Group) {
	g.POST("/suggest", controller.SuggestStyles)
	g.GET("/board", controller.GetBoard)
	g.GET("/board/items/:index/image", controller.GetItemImage)
	g.POST("/image", controller.GenerateImage)
}

func (in *SuggestStylesIn) normalize() {
	in.Role = strings.TrimSpace(in.Role)
	in.StylePreferences = strings.TrimSpace(in.StylePreferences)
	if in.Industry != nil {
		industry := strings.TrimSpace(*in.Industry)
		if industry == "" {
			in.Industry = nil
		} else {
			in.Industry = &industry
		}
	}
}

func (controller *StylesController) SuggestStyles(c echo.Context) error {
	session, ok := currentSession(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": unexpectedErrorMessage})
	}

	var req SuggestStylesIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": invalidRequestBodyMessage})
	}
	req.normalize()
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, validationResponse(err))
	}

	styleRequest := models.StyleRequest{
		Role:             req.Role,
		StylePreferences: req.StylePreferences,
		Industry:         req.Industry,
	}
	seq := session.Begin(styleRequest)
	logger := controller.Logger.With(zap.String("session", session.ID), zap.Uint64("request_id", seq))

	ctx, cancel := context.WithTimeout(c.Request().Context(), controller.SuggestionTimeout)
	defer cancel()
	suggestion, err := controller.Stylist.SuggestClothingStyles(ctx, styleRequest)
	if err != nil {
		message := suggestionFailedMessage
		status := http.StatusBadGateway
		if !services.IsGenerationError(err) {
			message = unexpectedErrorMessage
			status = http.StatusInternalServerError
		}
		logger.Error("style suggestion failed", zap.Error(err))
		sentry.CaptureException(err)
		if !session.Fail(seq, message) {
			return c.JSON(http.StatusConflict, map[string]string{"error": supersededMessage})
		}
		return c.JSON(status, map[string]interface{}{"error": message, "board": session.Snapshot().WithoutImages()})
	}

	items, ok := session.Succeed(seq, *suggestion)
	if !ok {
		logger.Info("dropping suggestion of superseded request")
		return c.JSON(http.StatusConflict, map[string]string{"error": supersededMessage})
	}
	logger.Info("style suggestion ready", zap.Int("items", len(items)))

	// images keep generating after this response is written
	controller.Populator.Populate(c.Request().Context(), session, seq, items)

	return c.JSON(http.StatusOK, session.Snapshot().WithoutImages())
}

// GetBoard is polled while images generate. Image data is left out, the
// client fetches each settled image once from GetItemImage.
func (controller *StylesController) GetBoard(c echo.Context) error {
	session, ok := currentSession(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": unexpectedErrorMessage})
	}
	return c.JSON(http.StatusOK, session.Snapshot().WithoutImages())
}

func (controller *StylesController) GetItemImage(c echo.Context) error {
	session, ok := currentSession(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": unexpectedErrorMessage})
	}

	var index int
	var requestID uint64
	if err := echo.PathParamsBinder(c).MustInt("index", &index).BindError(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": invalidInputMessage})
	}
	if err := echo.QueryParamsBinder(c).MustUint64("request_id", &requestID).BindError(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": invalidInputMessage})
	}

	if !session.IsActive(requestID) {
		return c.JSON(http.StatusConflict, map[string]string{"error": supersededMessage})
	}
	item, ok := session.Image(requestID, index)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": imageNotReadyMessage})
	}
	// a settled item never changes for its request id
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=3600")
	return c.JSON(http.StatusOK, GenerateImageResponse{ImageURL: item.ImageURL, Placeholder: item.Placeholder})
}

// GenerateImage produces one image on demand. A failure still answers 200 with the placeholder.
func (controller *StylesController) GenerateImage(c echo.Context) error {
	var req GenerateImageIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": invalidRequestBodyMessage})
	}
	req.ClothingDescription = strings.TrimSpace(req.ClothingDescription)
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, validationResponse(err))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), controller.ImageTimeout)
	defer cancel()
	image, err := controller.Stylist.GenerateClothingImage(ctx, req.ClothingDescription)
	if err != nil {
		controller.Logger.Warn("image generation failed, using placeholder",
			zap.String("hint", services.ItemHint(req.ClothingDescription)),
			zap.Error(err),
		)
		sentry.CaptureException(err)
		metrics.PlaceholderImages.Inc()
		return c.JSON(http.StatusOK, GenerateImageResponse{ImageURL: services.PlaceholderImageURL, Placeholder: true})
	}
	return c.JSON(http.StatusOK, GenerateImageResponse{ImageURL: image.ImageURL})
}

type pageData struct {
	Board       board.Snapshot
	Placeholder string
}

func (controller *StylesController) Index(c echo.Context) error {
	session, ok := currentSession(c)
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	return c.Render(http.StatusOK, "index.html", pageData{Board: session.Snapshot(), Placeholder: services.PlaceholderImageURL})
}

// Print renders the active board in a printable layout.
func (controller *StylesController) Print(c echo.Context) error {
	session, ok := currentSession(c)
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	return c.Render(http.StatusOK, "print.html", pageData{Board: session.Snapshot(), Placeholder: services.PlaceholderImageURL})
}

var templateFuncs = template.FuncMap{
	"imageSrc": imageSrc,
}

// imageSrc lets generated data URIs through html/template, anything else becomes the placeholder.
func imageSrc(url string) template.URL {
	if strings.HasPrefix(url, "data:image/") || url == services.PlaceholderImageURL {
		return template.URL(url)
	}
	return template.URL(services.PlaceholderImageURL)
}
