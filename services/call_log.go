package services

import (
	"context"

	"headshotstyler/models"

	"gorm.io/gorm"
)

type CallLogRecorder interface {
	Record(ctx context.Context, entry *models.AICallLog) error
}

type GormCallLogRecorder struct {
	DB *gorm.DB
}

func (r *GormCallLogRecorder) Record(ctx context.Context, entry *models.AICallLog) error {
	return r.DB.WithContext(ctx).Create(entry).Error
}

// NopCallLogRecorder is used when no database is configured.
type NopCallLogRecorder struct{}

func (NopCallLogRecorder) Record(context.Context, *models.AICallLog) error {
	return nil
}
