package repository

import (
	"context"

	"gorm.io/gorm"

	"activity-portal/backend/internal/model"
)

// HoursAdjustmentRepository 学时调整审计数据访问接口（仅追加）
type HoursAdjustmentRepository interface {
	Create(ctx context.Context, adj *model.HoursAdjustment) error
	ListBySerialHistory(ctx context.Context, serialHistoryID string) ([]model.HoursAdjustment, error)
}

type hoursAdjustmentRepo struct {
	db *gorm.DB
}

// NewHoursAdjustmentRepo 创建 HoursAdjustmentRepository 实例
func NewHoursAdjustmentRepo(db *gorm.DB) HoursAdjustmentRepository {
	return &hoursAdjustmentRepo{db: db}
}

func (r *hoursAdjustmentRepo) Create(ctx context.Context, adj *model.HoursAdjustment) error {
	return r.db.WithContext(ctx).Create(adj).Error
}

func (r *hoursAdjustmentRepo) ListBySerialHistory(ctx context.Context, serialHistoryID string) ([]model.HoursAdjustment, error) {
	var adjustments []model.HoursAdjustment
	err := r.db.WithContext(ctx).
		Where("serial_history_id = ?", serialHistoryID).
		Order("created_at DESC").
		Find(&adjustments).Error
	return adjustments, err
}
