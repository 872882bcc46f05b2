package repository

import (
	"context"

	"gorm.io/gorm"

	"activity-portal/backend/internal/model"
)

// SystemSettingRepository 系统设置数据访问接口
type SystemSettingRepository interface {
	Get(ctx context.Context) (*model.SystemSetting, error)
	Update(ctx context.Context, setting *model.SystemSetting) error
}

type systemSettingRepo struct {
	db *gorm.DB
}

// NewSystemSettingRepo 创建 SystemSettingRepository 实例
func NewSystemSettingRepo(db *gorm.DB) SystemSettingRepository {
	return &systemSettingRepo{db: db}
}

func (r *systemSettingRepo) Get(ctx context.Context) (*model.SystemSetting, error) {
	var setting model.SystemSetting
	err := r.db.WithContext(ctx).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *systemSettingRepo) Update(ctx context.Context, setting *model.SystemSetting) error {
	setting.Singleton = true
	return r.db.WithContext(ctx).Save(setting).Error
}
