package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"activity-portal/backend/internal/dto"
	"activity-portal/backend/internal/model"
	"activity-portal/backend/internal/repository"
)

// ── 学年模块业务错误 ──

var (
	ErrAcademicYearNotFound    = errors.New("学年不存在")
	ErrAcademicYearDateInvalid = errors.New("学年结束日期必须晚于开始日期")
	ErrAcademicYearExists      = errors.New("该学年已存在")
	ErrAcademicYearInUse       = errors.New("该学年下仍有活动，无法删除")
)

// AcademicYearService 学年业务接口
// 同一时刻至多一个学年处于激活状态
type AcademicYearService interface {
	Create(ctx context.Context, req *dto.CreateAcademicYearRequest, callerID string) (*dto.AcademicYearResponse, error)
	GetByID(ctx context.Context, id string) (*dto.AcademicYearResponse, error)
	List(ctx context.Context) ([]dto.AcademicYearResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateAcademicYearRequest, callerID string) (*dto.AcademicYearResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type academicYearService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAcademicYearService 创建 AcademicYearService 实例
func NewAcademicYearService(repo *repository.Repository, logger *zap.Logger) AcademicYearService {
	return &academicYearService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *academicYearService) Create(ctx context.Context, req *dto.CreateAcademicYearRequest, callerID string) (*dto.AcademicYearResponse, error) {
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, ErrAcademicYearDateInvalid
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, ErrAcademicYearDateInvalid
	}
	if !endDate.After(startDate) {
		return nil, ErrAcademicYearDateInvalid
	}

	year := strings.TrimSpace(req.Year)
	if _, err := s.repo.AcademicYear.GetByYear(ctx, year); err == nil {
		return nil, ErrAcademicYearExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询学年失败", zap.String("year", year), zap.Error(err))
		return nil, err
	}

	ay := &model.AcademicYear{
		Year:      year,
		YearLabel: strings.TrimSpace(req.YearLabel),
		StartDate: startDate,
		EndDate:   endDate,
		IsActive:  req.IsActive,
	}
	ay.SetCreator(callerID)

	// 激活新学年时需先清除其他学年的激活状态
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if ay.IsActive {
			if err := tx.AcademicYear.ClearActive(ctx); err != nil {
				return err
			}
		}
		return tx.AcademicYear.Create(ctx, ay)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAcademicYearExists
		}
		s.logger.Error("创建学年失败", zap.Error(err))
		return nil, err
	}

	return toAcademicYearResponse(ay), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *academicYearService) GetByID(ctx context.Context, id string) (*dto.AcademicYearResponse, error) {
	ay, err := s.repo.AcademicYear.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAcademicYearNotFound
		}
		s.logger.Error("查询学年失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toAcademicYearResponse(ay), nil
}

// ────────────────────── List ──────────────────────

func (s *academicYearService) List(ctx context.Context) ([]dto.AcademicYearResponse, error) {
	years, err := s.repo.AcademicYear.List(ctx)
	if err != nil {
		s.logger.Error("列出学年失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.AcademicYearResponse, 0, len(years))
	for i := range years {
		result = append(result, *toAcademicYearResponse(&years[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *academicYearService) Update(ctx context.Context, id string, req *dto.UpdateAcademicYearRequest, callerID string) (*dto.AcademicYearResponse, error) {
	ay, err := s.repo.AcademicYear.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAcademicYearNotFound
		}
		s.logger.Error("查询学年失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.YearLabel != nil {
		ay.YearLabel = strings.TrimSpace(*req.YearLabel)
	}
	if req.StartDate != nil {
		startDate, err := time.Parse(dateLayout, *req.StartDate)
		if err != nil {
			return nil, ErrAcademicYearDateInvalid
		}
		ay.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			return nil, ErrAcademicYearDateInvalid
		}
		ay.EndDate = endDate
	}
	if !ay.EndDate.After(ay.StartDate) {
		return nil, ErrAcademicYearDateInvalid
	}

	activate := req.IsActive != nil && *req.IsActive && !ay.IsActive
	if req.IsActive != nil {
		ay.IsActive = *req.IsActive
	}
	ay.SetUpdater(callerID)

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if activate {
			if err := tx.AcademicYear.ClearActive(ctx); err != nil {
				return err
			}
		}
		return tx.AcademicYear.Update(ctx, ay)
	})
	if err != nil {
		s.logger.Error("更新学年失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toAcademicYearResponse(ay), nil
}

// ────────────────────── Delete ──────────────────────

func (s *academicYearService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.AcademicYear.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAcademicYearNotFound
		}
		s.logger.Error("查询学年失败", zap.String("id", id), zap.Error(err))
		return err
	}

	count, err := s.repo.Activity.CountByAcademicYearID(ctx, id)
	if err != nil {
		s.logger.Error("统计学年活动数失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if count > 0 {
		return ErrAcademicYearInUse
	}

	if err := s.repo.AcademicYear.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除学年失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func toAcademicYearResponse(ay *model.AcademicYear) *dto.AcademicYearResponse {
	return &dto.AcademicYearResponse{
		ID:        ay.AcademicYearID,
		Year:      ay.Year,
		YearLabel: ay.YearLabel,
		StartDate: ay.StartDate.Format(dateLayout),
		EndDate:   ay.EndDate.Format(dateLayout),
		IsActive:  ay.IsActive,
	}
}
