package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"activity-portal/backend/internal/dto"
	"activity-portal/backend/internal/model"
	"activity-portal/backend/internal/repository"
)

// SystemSettingService 系统设置业务接口
type SystemSettingService interface {
	Get(ctx context.Context) (*dto.SystemSettingResponse, error)
	Update(ctx context.Context, req *dto.UpdateSystemSettingRequest, callerID string) (*dto.SystemSettingResponse, error)
}

type systemSettingService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSystemSettingService 创建 SystemSettingService 实例
func NewSystemSettingService(repo *repository.Repository, logger *zap.Logger) SystemSettingService {
	return &systemSettingService{repo: repo, logger: logger}
}

// ────────────────────── Get ──────────────────────

func (s *systemSettingService) Get(ctx context.Context) (*dto.SystemSettingResponse, error) {
	setting, err := s.repo.SystemSetting.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.SystemSettingResponse{RequiredHours: model.DefaultRequiredHours}, nil
		}
		s.logger.Error("查询系统设置失败", zap.Error(err))
		return nil, err
	}
	return toSystemSettingResponse(setting), nil
}

// ────────────────────── Update ──────────────────────

func (s *systemSettingService) Update(ctx context.Context, req *dto.UpdateSystemSettingRequest, callerID string) (*dto.SystemSettingResponse, error) {
	setting, err := s.repo.SystemSetting.Get(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询系统设置失败", zap.Error(err))
			return nil, err
		}
		setting = &model.SystemSetting{Singleton: true}
		setting.SetCreator(callerID)
	}

	if req.RequiredHours != nil {
		setting.RequiredHours = *req.RequiredHours
	}
	setting.SetUpdater(callerID)

	if err := s.repo.SystemSetting.Update(ctx, setting); err != nil {
		s.logger.Error("更新系统设置失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("系统设置已更新",
		zap.String("updated_by", callerID),
		zap.Int("required_hours", setting.RequiredHours))
	return toSystemSettingResponse(setting), nil
}

// ── 内部辅助方法 ──

func toSystemSettingResponse(setting *model.SystemSetting) *dto.SystemSettingResponse {
	resp := &dto.SystemSettingResponse{RequiredHours: setting.RequiredHours}
	if resp.RequiredHours <= 0 {
		resp.RequiredHours = model.DefaultRequiredHours
	}
	if !setting.UpdatedAt.IsZero() {
		resp.UpdatedAt = setting.UpdatedAt.Format(dateTimeLayout)
	}
	return resp
}

// resolveRequiredHours 毕业所需学时：system_settings 中的正值优先，否则使用 DefaultRequiredHours
func resolveRequiredHours(ctx context.Context, repo *repository.Repository) (int, error) {
	setting, err := repo.SystemSetting.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.DefaultRequiredHours, nil
		}
		return 0, err
	}
	if setting.RequiredHours <= 0 {
		return model.DefaultRequiredHours, nil
	}
	return setting.RequiredHours, nil
}
