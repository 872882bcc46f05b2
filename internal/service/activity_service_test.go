package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"activity-portal/backend/internal/dto"
	"activity-portal/backend/internal/model"
)

func setupActivityService() (*activityService, *mockRepos) {
	repo, m := newMockRepos()
	svc := &activityService{
		repo:   repo,
		logger: zap.NewNop(),
		now:    func() time.Time { return fixedNow },
	}
	return svc, m
}

func createActivityReq(title string) *dto.CreateActivityRequest {
	return &dto.CreateActivityRequest{
		Title:        title,
		Description:  "desc",
		StartDate:    fixedNow.Add(24 * time.Hour),
		EndDate:      fixedNow.Add(26 * time.Hour),
		HoursAwarded: 3,
	}
}

func TestActivity_Create(t *testing.T) {
	svc, m := setupActivityService()
	_ = m.years.Create(context.Background(), &model.AcademicYear{AcademicYearID: "ay-1", Year: "2568"})

	req := createActivityReq("Beach Cleanup 2025!")
	req.AcademicYear = strPtr("2568")
	resp, err := svc.Create(context.Background(), req, "admin-1")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.Status != model.ActivityStatusDraft {
		t.Errorf("默认状态应为 DRAFT，实际=%s", resp.Status)
	}
	if !strings.HasPrefix(resp.PublicSlug, "beach-cleanup-2025-") {
		t.Errorf("slug 不符: %s", resp.PublicSlug)
	}
	if resp.AcademicYearID == nil || *resp.AcademicYearID != "ay-1" {
		t.Error("按学年编号应关联已存在的学年")
	}
	if resp.CreatedBy == nil || *resp.CreatedBy != "admin-1" {
		t.Error("应记录创建者")
	}
}

func TestActivity_CreateInvalidDates(t *testing.T) {
	svc, _ := setupActivityService()
	req := createActivityReq("Camp")
	req.EndDate = req.StartDate

	if _, err := svc.Create(context.Background(), req, "admin-1"); !errors.Is(err, ErrActivityDateInvalid) {
		t.Errorf("期望 ErrActivityDateInvalid，实际: %v", err)
	}
}

func TestActivity_CreateUnknownAcademicYearID(t *testing.T) {
	svc, _ := setupActivityService()
	req := createActivityReq("Camp")
	req.AcademicYearID = strPtr("missing")

	if _, err := svc.Create(context.Background(), req, "admin-1"); !errors.Is(err, ErrActivityAcademicYearNotFound) {
		t.Errorf("期望 ErrActivityAcademicYearNotFound，实际: %v", err)
	}
}

func TestActivity_UpdateOwnership(t *testing.T) {
	svc, _ := setupActivityService()
	ctx := context.Background()
	created, _ := svc.Create(ctx, createActivityReq("Camp"), "creator-1")

	title := "Renamed"
	if _, err := svc.Update(ctx, created.ID, &dto.UpdateActivityRequest{Title: &title}, "other", model.RoleStudent); !errors.Is(err, ErrActivityForbidden) {
		t.Errorf("非创建者期望 ErrActivityForbidden，实际: %v", err)
	}

	resp, err := svc.Update(ctx, created.ID, &dto.UpdateActivityRequest{Title: &title}, "creator-1", model.RoleStudent)
	if err != nil || resp.Title != "Renamed" {
		t.Errorf("创建者应可修改: %v %+v", err, resp)
	}

	hours := 6
	resp, err = svc.Update(ctx, created.ID, &dto.UpdateActivityRequest{HoursAwarded: &hours}, "admin-9", model.RoleAdmin)
	if err != nil || resp.HoursAwarded != 6 {
		t.Errorf("管理员应可修改: %v %+v", err, resp)
	}
}

func TestActivity_Reschedule(t *testing.T) {
	svc, _ := setupActivityService()
	ctx := context.Background()
	created, _ := svc.Create(ctx, createActivityReq("Camp"), "admin-1")

	newStart := fixedNow.Add(72 * time.Hour)
	resp, err := svc.Reschedule(ctx, created.ID, &dto.RescheduleActivityRequest{
		NewStartDate: newStart,
		NewEndDate:   newStart.Add(time.Hour),
		Reason:       "rain",
	}, "admin-1", model.RoleAdmin)
	if err != nil {
		t.Fatalf("Reschedule 应成功: %v", err)
	}
	if resp.StartDate != newStart.Format(time.RFC3339) {
		t.Errorf("开始时间未更新: %s", resp.StartDate)
	}
	if resp.RescheduledDate == nil || *resp.RescheduledDate != fixedNow.Format(time.RFC3339) {
		t.Error("应记录改期时间")
	}

	_, err = svc.Reschedule(ctx, created.ID, &dto.RescheduleActivityRequest{
		NewStartDate: newStart, NewEndDate: newStart.Add(-time.Hour),
	}, "admin-1", model.RoleAdmin)
	if !errors.Is(err, ErrActivityDateInvalid) {
		t.Errorf("期望 ErrActivityDateInvalid，实际: %v", err)
	}
}

func TestActivity_DeleteKeepsHistory(t *testing.T) {
	svc, m := setupActivityService()
	ctx := context.Background()
	created, _ := svc.Create(ctx, createActivityReq("Camp"), "admin-1")
	m.seedHistory("h-1", "user-1", "s-1", created.ID, 3, true, fixedNow)

	if err := svc.Delete(ctx, created.ID, "admin-1", model.RoleAdmin); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, err := svc.GetByID(ctx, created.ID); !errors.Is(err, ErrActivityNotFound) {
		t.Errorf("删除后期望 ErrActivityNotFound，实际: %v", err)
	}
	if m.histories.peek("h-1") == nil {
		t.Error("删除活动不应删除兑换流水")
	}
}

func TestActivity_ListPublicOnlyOpen(t *testing.T) {
	svc, m := setupActivityService()
	m.seedActivity("open-1", "Open", 1, "2568")
	draft := m.seedActivity("draft-1", "Draft", 1, "2568")
	draft.Status = model.ActivityStatusDraft
	_ = m.activities.Update(context.Background(), draft)

	list, total, err := svc.ListPublic(context.Background(), &dto.ActivityListRequest{Status: model.ActivityStatusDraft})
	if err != nil {
		t.Fatalf("ListPublic 应成功: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].ID != "open-1" {
		t.Errorf("公开列表只应包含 OPEN 活动: %+v", list)
	}

	all, total, _ := svc.List(context.Background(), &dto.ActivityListRequest{})
	if total != 2 || len(all) != 2 {
		t.Errorf("管理端列表应包含全部活动，实际=%d", total)
	}
}

func TestActivity_ListFiltersByCreator(t *testing.T) {
	svc, m := setupActivityService()
	mine := m.seedActivity("mine-1", "Mine", 1, "2568")
	mine.SetCreator("admin-1")
	_ = m.activities.Update(context.Background(), mine)
	other := m.seedActivity("other-1", "Other", 1, "2568")
	other.SetCreator("admin-2")
	_ = m.activities.Update(context.Background(), other)

	list, total, err := svc.List(context.Background(), &dto.ActivityListRequest{CreatedBy: "admin-1"})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].ID != "mine-1" {
		t.Errorf("只应返回 admin-1 创建的活动: %+v", list)
	}

	public, total, _ := svc.ListPublic(context.Background(), &dto.ActivityListRequest{CreatedBy: "admin-1"})
	if total != 2 || len(public) != 2 {
		t.Errorf("公开列表忽略 created_by，实际=%d", total)
	}
}

func TestActivity_ListParticipants(t *testing.T) {
	svc, m := setupActivityService()
	m.seedActivity("act-1", "Camp", 2, "")
	m.seedHistory("h-1", "user-1", "s-1", "act-1", 0, false, fixedNow)
	m.seedHistory("h-2", "user-2", "s-2", "act-1", 2, true, fixedNow.Add(time.Minute))

	list, err := svc.ListParticipants(context.Background(), "act-1")
	if err != nil {
		t.Fatalf("ListParticipants 应成功: %v", err)
	}
	if len(list) != 2 || list[0].UserID != "user-1" || !list[1].IsReviewed {
		t.Errorf("参与者列表不符: %+v", list)
	}

	if _, err := svc.ListParticipants(context.Background(), "missing"); !errors.Is(err, ErrActivityNotFound) {
		t.Errorf("期望 ErrActivityNotFound，实际: %v", err)
	}
}

func TestGenerateSlug(t *testing.T) {
	tests := []struct{ title, prefix string }{
		{"Beach Cleanup", "beach-cleanup-"},
		{"  --Hello,  World--  ", "hello-world-"},
		{"กิจกรรม", "activity-"},
	}
	for _, tt := range tests {
		if got := generateSlug(tt.title); !strings.HasPrefix(got, tt.prefix) || len(got) != len(tt.prefix)+8 {
			t.Errorf("generateSlug(%q)=%s，期望前缀 %s", tt.title, got, tt.prefix)
		}
	}
	if generateSlug("Same") == generateSlug("Same") {
		t.Error("同名活动的 slug 应不同")
	}
}
