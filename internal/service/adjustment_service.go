package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"activity-portal/backend/internal/dto"
	"activity-portal/backend/internal/model"
	"activity-portal/backend/internal/repository"
	apperrors "activity-portal/backend/pkg/errors"
)

// ErrHistoryNotReviewed 未评价的流水学时恒为 0，不允许人工调整
var ErrHistoryNotReviewed = errors.New("该兑换记录尚未评价，不能调整学时")

// AdjustmentService 管理员学时修正接口
// 评价完成后 SerialHistory 不再由业务流程修改，纠错统一经此接口并写审计记录
type AdjustmentService interface {
	AdjustHours(ctx context.Context, serialHistoryID string, req *dto.AdjustHoursRequest, callerID string) (*dto.HoursAdjustmentResponse, error)
	ListAdjustments(ctx context.Context, serialHistoryID string) ([]dto.HoursAdjustmentResponse, error)
}

type adjustmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAdjustmentService 创建 AdjustmentService 实例
func NewAdjustmentService(repo *repository.Repository, logger *zap.Logger) AdjustmentService {
	return &adjustmentService{repo: repo, logger: logger}
}

// ────────────────────── AdjustHours ──────────────────────

func (s *adjustmentService) AdjustHours(ctx context.Context, serialHistoryID string, req *dto.AdjustHoursRequest, callerID string) (*dto.HoursAdjustmentResponse, error) {
	var adj *model.HoursAdjustment
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		history, err := tx.SerialHistory.GetByIDForUpdate(ctx, serialHistoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHistoryNotFound
			}
			return err
		}
		if !history.IsReviewed {
			return ErrHistoryNotReviewed
		}

		adj = &model.HoursAdjustment{
			SerialHistoryID: serialHistoryID,
			PreviousHours:   history.HoursEarned,
			NewHours:        *req.Hours,
			Reason:          strings.TrimSpace(req.Reason),
			AdjustedBy:      callerID,
		}
		if err := tx.SerialHistory.UpdateHours(ctx, serialHistoryID, *req.Hours, callerID); err != nil {
			if errors.Is(err, apperrors.ErrConcurrentUpdate) {
				return ErrHistoryNotReviewed
			}
			return err
		}
		return tx.HoursAdjustment.Create(ctx, adj)
	})
	if err != nil {
		if !errors.Is(err, ErrHistoryNotFound) && !errors.Is(err, ErrHistoryNotReviewed) {
			s.logger.Error("调整学时失败", zap.String("serial_history_id", serialHistoryID), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("学时已人工调整",
		zap.String("serial_history_id", serialHistoryID),
		zap.Int("previous_hours", adj.PreviousHours),
		zap.Int("new_hours", adj.NewHours),
		zap.String("adjusted_by", callerID))
	resp := toAdjustmentResponse(adj)
	return &resp, nil
}

// ────────────────────── ListAdjustments ──────────────────────

func (s *adjustmentService) ListAdjustments(ctx context.Context, serialHistoryID string) ([]dto.HoursAdjustmentResponse, error) {
	if _, err := s.repo.SerialHistory.GetByID(ctx, serialHistoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHistoryNotFound
		}
		s.logger.Error("查询兑换记录失败", zap.String("serial_history_id", serialHistoryID), zap.Error(err))
		return nil, err
	}

	list, err := s.repo.HoursAdjustment.ListBySerialHistory(ctx, serialHistoryID)
	if err != nil {
		s.logger.Error("查询学时调整记录失败", zap.String("serial_history_id", serialHistoryID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.HoursAdjustmentResponse, 0, len(list))
	for i := range list {
		result = append(result, toAdjustmentResponse(&list[i]))
	}
	return result, nil
}

func toAdjustmentResponse(adj *model.HoursAdjustment) dto.HoursAdjustmentResponse {
	return dto.HoursAdjustmentResponse{
		ID:              adj.HoursAdjustmentID,
		SerialHistoryID: adj.SerialHistoryID,
		PreviousHours:   adj.PreviousHours,
		NewHours:        adj.NewHours,
		Reason:          adj.Reason,
		AdjustedBy:      adj.AdjustedBy,
		CreatedAt:       adj.CreatedAt.Format(dateTimeLayout),
	}
}
