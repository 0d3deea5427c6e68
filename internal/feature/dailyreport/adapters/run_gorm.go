// Package adapters は dailyreport の実行履歴を永続化します。
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"fox_trade/internal/feature/dailyreport/domain/entity"
	"fox_trade/internal/feature/dailyreport/usecase"
)

// DefaultListLimit is used when ListRecent gets a non-positive limit.
const DefaultListLimit = 20

type runGorm struct {
	db *gorm.DB
}

var _ usecase.RunRepository = (*runGorm)(nil)

func NewRunRepository(db *gorm.DB) *runGorm {
	return &runGorm{db: db}
}

// RunModel は実行履歴テーブルの行です。K線の値そのものは保存しません。
type RunModel struct {
	ID         string    `gorm:"primaryKey;size:36"`
	Symbol     string    `gorm:"size:16;not null;index:run_symbol_started,priority:1"`
	AsOfDate   string    `gorm:"size:8;not null"`
	Status     string    `gorm:"size:16;not null"`
	Attempts   int       `gorm:"not null;default:0"`
	Error      string    `gorm:"type:text"`
	StartedAt  time.Time `gorm:"not null;index;index:run_symbol_started,priority:2"`
	FinishedAt *time.Time
}

func (RunModel) TableName() string {
	return "report_runs"
}

func toModel(e entity.Run) RunModel {
	return RunModel{
		ID:         e.ID,
		Symbol:     e.Symbol,
		AsOfDate:   e.AsOfDate,
		Status:     string(e.Status),
		Attempts:   e.Attempts,
		Error:      e.Error,
		StartedAt:  e.StartedAt,
		FinishedAt: e.FinishedAt,
	}
}

func toEntity(m RunModel) entity.Run {
	return entity.Run{
		ID:         m.ID,
		Symbol:     m.Symbol,
		AsOfDate:   m.AsOfDate,
		Status:     entity.RunStatus(m.Status),
		Attempts:   m.Attempts,
		Error:      m.Error,
		StartedAt:  m.StartedAt,
		FinishedAt: m.FinishedAt,
	}
}

func (r *runGorm) Create(ctx context.Context, run *entity.Run) error {
	m := toModel(*run)
	return r.db.WithContext(ctx).Create(&m).Error
}

// Update overwrites the mutable columns of an existing run.
func (r *runGorm) Update(ctx context.Context, run *entity.Run) error {
	res := r.db.WithContext(ctx).Model(&RunModel{}).
		Where("id = ?", run.ID).
		Updates(map[string]any{
			"status":      string(run.Status),
			"attempts":    run.Attempts,
			"error":       run.Error,
			"finished_at": run.FinishedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrRunNotFound
	}
	return nil
}

func (r *runGorm) FindByID(ctx context.Context, id string) (*entity.Run, error) {
	var m RunModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrRunNotFound
		}
		return nil, err
	}
	run := toEntity(m)
	return &run, nil
}

// ListRecent returns runs newest first.
func (r *runGorm) ListRecent(ctx context.Context, limit int) ([]entity.Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	var rows []RunModel
	if err := r.db.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Run, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}
