package controllers

import (
	"embed"
	"html/template"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"headshotstyler/board"
	"headshotstyler/models"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fieldErrors(err))
	}
	return nil
}

func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("rating", models.ValidateRating)
	return &CustomValidator{validator: v}
}

type Template struct {
	templates *template.Template
}

func (t *Template) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}

//go:embed templates
var embededFiles embed.FS

type ServerOptions struct {
	Stylist           Stylist
	Feedback          FeedbackRecorder
	Sessions          *board.Store
	Logger            *zap.Logger
	SuggestionTimeout time.Duration
	ImageTimeout      time.Duration
	SessionTTL        time.Duration
}

func SetupServer(opts ServerOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	templates := template.Must(template.New("").Funcs(templateFuncs).ParseFS(embededFiles, "templates/*.html"))
	e.Renderer = &Template{templates: templates}
	e.Validator = NewValidator()

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				opts.Logger.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			opts.Logger.Info("request", fields...)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	sessionMiddleware := SessionMiddleware(opts.Sessions, opts.SessionTTL)

	stylesController := StylesController{
		Stylist:           opts.Stylist,
		Populator:         &board.ImagePopulator{Generator: opts.Stylist, Timeout: opts.ImageTimeout, Logger: opts.Logger},
		SuggestionTimeout: opts.SuggestionTimeout,
		ImageTimeout:      opts.ImageTimeout,
		Logger:            opts.Logger,
	}
	e.GET("/", stylesController.Index, sessionMiddleware)
	e.GET("/styles/print", stylesController.Print, sessionMiddleware)

	stylesGroup := e.Group("/api/styles", sessionMiddleware)
	stylesController.StyleRoutes(stylesGroup)

	feedbackController := FeedbackController{Recorder: opts.Feedback, Logger: opts.Logger}
	feedbackGroup := e.Group("/api/feedback", sessionMiddleware)
	feedbackController.FeedbackRoutes(feedbackGroup)

	return e
}
