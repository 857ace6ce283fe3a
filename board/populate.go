package board

import (
	"context"
	"fmt"
	"sync"
	"time"

	"headshotstyler/metrics"
	"headshotstyler/models"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

type ImageGenerator interface {
	GenerateClothingImage(ctx context.Context, description string) (*models.GeneratedImage, error)
}

type ImagePopulator struct {
	Generator ImageGenerator
	Timeout   time.Duration
	Logger    *zap.Logger
}

// Populate starts one image generation per item. Items settle independently
// and a failed item gets the placeholder without touching the others.
// The returned channel is closed once every item has settled.
//
// Generations outlive ctx cancellation; each one is bounded by Timeout only.
func (p *ImagePopulator) Populate(ctx context.Context, session *Session, seq uint64, items []Item) <-chan struct{} {
	done := make(chan struct{})
	if len(items) == 0 {
		close(done)
		return done
	}

	detached := context.WithoutCancel(ctx)
	var wg sync.WaitGroup
	for _, item := range items {
		wg.Add(1)
		go func(item Item) {
			defer wg.Done()
			p.populateItem(detached, session, seq, item)
		}(item)
	}

	go func() {
		wg.Wait()
		close(done)
	}()
	return done
}

func (p *ImagePopulator) populateItem(ctx context.Context, session *Session, seq uint64, item Item) {
	logger := p.Logger.With(
		zap.String("session", session.ID),
		zap.Uint64("request_id", seq),
		zap.Int("item", item.Index),
		zap.String("hint", item.Hint),
	)
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic while generating image for item %d: %v", item.Index, r)
			logger.Error("image generation panicked", zap.Error(err))
			sentry.CaptureException(err)
			p.placeholder(session, seq, item.Index)
		}
	}()

	if !session.IsActive(seq) {
		logger.Debug("request superseded before image generation started")
		return
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	itemCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	image, err := p.Generator.GenerateClothingImage(itemCtx, item.Text)
	if err != nil {
		logger.Warn("image generation failed, using placeholder", zap.Error(err))
		sentry.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("failure_type", "image_generation")
			scope.SetExtra("item", item.Text)
			sentry.CaptureException(err)
		})
		p.placeholder(session, seq, item.Index)
		return
	}
	if !session.ResolveItem(seq, item.Index, image.ImageURL) {
		logger.Debug("dropping image for superseded request")
	}
}

func (p *ImagePopulator) placeholder(session *Session, seq uint64, index int) {
	if session.FailItem(seq, index) {
		metrics.PlaceholderImages.Inc()
	}
}
