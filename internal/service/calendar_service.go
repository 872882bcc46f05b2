package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"activity-portal/backend/internal/model"
	"activity-portal/backend/internal/repository"
)

// ── 活动日历订阅 ──────────────────────────────────────────────
//
// 职责：将 OPEN 状态的活动导出为标准 iCalendar (RFC 5545) 订阅源。
//
//   - 每个活动一个 VEVENT，UID 使用 activity_id 保证订阅端去重
//   - 改期活动直接使用新的 start/end，无需额外 RECURRENCE-ID
//   - URL 指向前端公开页 {base_url}/activities/{public_slug}
// ─────────────────────────────────────────────────────────────

const (
	calendarMaxEvents = 500
	calendarProductID = "-//activity-portal//activities//TH"
	calendarName      = "Activity Portal"
)

// CalendarService 活动日历订阅接口
type CalendarService interface {
	// BuildFeed 返回序列化后的 ICS 文本
	BuildFeed(ctx context.Context) (string, error)
}

type calendarService struct {
	repo    *repository.Repository
	baseURL string
	logger  *zap.Logger
	now     func() time.Time
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(repo *repository.Repository, baseURL string, logger *zap.Logger) CalendarService {
	return &calendarService{
		repo:    repo,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
		now:     time.Now,
	}
}

func (s *calendarService) BuildFeed(ctx context.Context) (string, error) {
	activities, _, err := s.repo.Activity.List(ctx,
		repository.ActivityFilter{Status: model.ActivityStatusOpen}, 0, calendarMaxEvents)
	if err != nil {
		s.logger.Error("查询日历活动失败", zap.Error(err))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetXWRCalName(calendarName)

	stamp := s.now().UTC()
	for i := range activities {
		a := &activities[i]

		event := cal.AddEvent(a.ActivityID + "@activity-portal")
		event.SetDtStampTime(stamp)
		event.SetStartAt(a.StartDate.UTC())
		event.SetEndAt(a.EndDate.UTC())
		event.SetSummary(a.Title)
		if a.Description != "" {
			event.SetDescription(fmt.Sprintf("%s\n\n学时: %d", a.Description, a.HoursAwarded))
		} else {
			event.SetDescription(fmt.Sprintf("学时: %d", a.HoursAwarded))
		}
		if a.Location != nil && *a.Location != "" {
			event.SetLocation(*a.Location)
		}
		if s.baseURL != "" {
			event.SetURL(s.baseURL + "/activities/" + a.PublicSlug)
		}
	}

	return cal.Serialize(), nil
}
