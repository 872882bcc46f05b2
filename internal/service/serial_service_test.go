package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"go.uber.org/zap"

	"activity-portal/backend/internal/model"
)

func setupSerialService() (SerialService, *mockRepos) {
	repo, m := newMockRepos()
	return NewSerialService(repo, zap.NewNop()), m
}

var serialCodePattern = regexp.MustCompile(`^[A-HJ-NP-Z2-9]{5}-[A-HJ-NP-Z2-9]{5}$`)

func TestGenerateSerialCode_Format(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := generateSerialCode()
		if err != nil {
			t.Fatalf("generateSerialCode 失败: %v", err)
		}
		if !serialCodePattern.MatchString(code) {
			t.Fatalf("code 格式不符: %s", code)
		}
	}
}

func TestSerial_Generate(t *testing.T) {
	svc, m := setupSerialService()
	m.seedActivity("act-1", "Camp", 2, "")

	list, err := svc.Generate(context.Background(), "act-1", 50, "admin-1")
	if err != nil {
		t.Fatalf("Generate 应成功: %v", err)
	}
	if len(list) != 50 {
		t.Fatalf("期望 50 个，实际=%d", len(list))
	}
	seen := make(map[string]bool)
	for _, s := range list {
		if s.Status != model.SerialStatusPending || s.ActivityID != "act-1" {
			t.Errorf("新 code 状态不符: %+v", s)
		}
		if seen[s.Code] {
			t.Errorf("code 重复: %s", s.Code)
		}
		seen[s.Code] = true
	}

	stored, _ := svc.ListByActivity(context.Background(), "act-1")
	if len(stored) != 50 {
		t.Errorf("期望落库 50 个，实际=%d", len(stored))
	}
}

func TestSerial_GenerateValidation(t *testing.T) {
	svc, m := setupSerialService()
	m.seedActivity("act-1", "Camp", 2, "")
	draft := m.seedActivity("act-draft", "Draft", 2, "")
	draft.Status = model.ActivityStatusDraft
	_ = m.activities.Update(context.Background(), draft)

	for _, n := range []int{0, 1001} {
		if _, err := svc.Generate(context.Background(), "act-1", n, "admin-1"); !errors.Is(err, ErrSerialCountInvalid) {
			t.Errorf("count=%d 期望 ErrSerialCountInvalid，实际: %v", n, err)
		}
	}
	if _, err := svc.Generate(context.Background(), "missing", 1, "admin-1"); !errors.Is(err, ErrActivityNotFound) {
		t.Errorf("期望 ErrActivityNotFound，实际: %v", err)
	}
	if _, err := svc.Generate(context.Background(), "act-draft", 1, "admin-1"); !errors.Is(err, ErrSerialActivityNotIssued) {
		t.Errorf("期望 ErrSerialActivityNotIssued，实际: %v", err)
	}
}

func TestSerial_UpdateStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to string
		wantErr  error
	}{
		{model.SerialStatusPending, model.SerialStatusSent, nil},
		{model.SerialStatusPending, model.SerialStatusExpired, nil},
		{model.SerialStatusSent, model.SerialStatusCancelled, nil},
		{model.SerialStatusSent, model.SerialStatusSent, ErrSerialStatusTransition},
		{model.SerialStatusRedeemed, model.SerialStatusCancelled, ErrSerialStatusTransition},
		{model.SerialStatusExpired, model.SerialStatusSent, ErrSerialStatusTransition},
		{model.SerialStatusPending, model.SerialStatusRedeemed, ErrSerialStatusTransition},
	}

	for _, tt := range tests {
		t.Run(tt.from+"→"+tt.to, func(t *testing.T) {
			svc, m := setupSerialService()
			m.seedSerial("serial-1", "CODE-1", "act-1", tt.from)

			resp, err := svc.UpdateStatus(context.Background(), "serial-1", tt.to, "admin-1")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("期望 %v，实际: %v", tt.wantErr, err)
			}
			want := tt.from
			if tt.wantErr == nil {
				want = tt.to
				if resp.Status != tt.to {
					t.Errorf("响应状态不符: %s", resp.Status)
				}
			}
			if got := m.serials.peek("serial-1").Status; got != want {
				t.Errorf("期望状态 %s，实际=%s", want, got)
			}
		})
	}
}

func TestSerial_UpdateStatusNotFound(t *testing.T) {
	svc, _ := setupSerialService()

	if _, err := svc.UpdateStatus(context.Background(), "missing", model.SerialStatusSent, "admin-1"); !errors.Is(err, ErrSerialNotFound) {
		t.Errorf("期望 ErrSerialNotFound，实际: %v", err)
	}
}

// 与库中已有 code 冲突的候选被丢弃
func TestSerial_UniqueCodesSkipsExisting(t *testing.T) {
	repo, m := newMockRepos()
	svc := &serialService{repo: repo, logger: zap.NewNop()}
	m.seedSerial("serial-x", "TAKEN-CODE", "act-1", model.SerialStatusPending)

	codes, err := svc.uniqueCodes(context.Background(), 20)
	if err != nil {
		t.Fatalf("uniqueCodes 应成功: %v", err)
	}
	for _, c := range codes {
		if strings.EqualFold(c, "TAKEN-CODE") {
			t.Error("不应返回已占用的 code")
		}
	}
}
