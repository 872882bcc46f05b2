package repository

import (
	"context"

	"gorm.io/gorm"

	"activity-portal/backend/internal/model"
)

// ActivityReviewRepository 活动评价数据访问接口
type ActivityReviewRepository interface {
	Create(ctx context.Context, review *model.ActivityReview) error
	GetBySerialHistoryID(ctx context.Context, serialHistoryID string) (*model.ActivityReview, error)
	ListByActivity(ctx context.Context, activityID string) ([]model.ActivityReview, error)
}

type activityReviewRepo struct {
	db *gorm.DB
}

// NewActivityReviewRepo 创建 ActivityReviewRepository 实例
func NewActivityReviewRepo(db *gorm.DB) ActivityReviewRepository {
	return &activityReviewRepo{db: db}
}

func (r *activityReviewRepo) Create(ctx context.Context, review *model.ActivityReview) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *activityReviewRepo) GetBySerialHistoryID(ctx context.Context, serialHistoryID string) (*model.ActivityReview, error) {
	var review model.ActivityReview
	err := r.db.WithContext(ctx).
		Where("serial_history_id = ?", serialHistoryID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *activityReviewRepo) ListByActivity(ctx context.Context, activityID string) ([]model.ActivityReview, error) {
	var reviews []model.ActivityReview
	err := r.db.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("created_at ASC").
		Find(&reviews).Error
	return reviews, err
}
