package repository

import (
	"context"

	"gorm.io/gorm"

	"activity-portal/backend/internal/model"
)

// AcademicYearRepository 学年数据访问接口
type AcademicYearRepository interface {
	Create(ctx context.Context, year *model.AcademicYear) error
	GetByID(ctx context.Context, id string) (*model.AcademicYear, error)
	GetByYear(ctx context.Context, year string) (*model.AcademicYear, error)
	GetActive(ctx context.Context) (*model.AcademicYear, error)
	List(ctx context.Context) ([]model.AcademicYear, error)
	Update(ctx context.Context, year *model.AcademicYear) error
	Delete(ctx context.Context, id string, deletedBy string) error
	ClearActive(ctx context.Context) error
}

type academicYearRepo struct {
	db *gorm.DB
}

// NewAcademicYearRepo 创建 AcademicYearRepository 实例
func NewAcademicYearRepo(db *gorm.DB) AcademicYearRepository {
	return &academicYearRepo{db: db}
}

func (r *academicYearRepo) Create(ctx context.Context, year *model.AcademicYear) error {
	return r.db.WithContext(ctx).Create(year).Error
}

func (r *academicYearRepo) GetByID(ctx context.Context, id string) (*model.AcademicYear, error) {
	var year model.AcademicYear
	err := r.db.WithContext(ctx).
		Where("academic_year_id = ?", id).
		First(&year).Error
	if err != nil {
		return nil, err
	}
	return &year, nil
}

func (r *academicYearRepo) GetByYear(ctx context.Context, year string) (*model.AcademicYear, error) {
	var ay model.AcademicYear
	err := r.db.WithContext(ctx).
		Where("year = ?", year).
		First(&ay).Error
	if err != nil {
		return nil, err
	}
	return &ay, nil
}

func (r *academicYearRepo) GetActive(ctx context.Context) (*model.AcademicYear, error) {
	var year model.AcademicYear
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		First(&year).Error
	if err != nil {
		return nil, err
	}
	return &year, nil
}

func (r *academicYearRepo) List(ctx context.Context) ([]model.AcademicYear, error) {
	var years []model.AcademicYear
	err := r.db.WithContext(ctx).
		Order("year DESC").
		Find(&years).Error
	return years, err
}

func (r *academicYearRepo) Update(ctx context.Context, year *model.AcademicYear) error {
	return r.db.WithContext(ctx).Save(year).Error
}

func (r *academicYearRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.AcademicYear{}).
		Where("academic_year_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

// ClearActive 将所有学年的 is_active 设为 false
func (r *academicYearRepo) ClearActive(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&model.AcademicYear{}).
		Where("is_active = ?", true).
		Update("is_active", false).Error
}
