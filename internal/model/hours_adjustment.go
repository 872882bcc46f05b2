package model

import "time"

// HoursAdjustment 学时人工调整审计表，对应 hours_adjustments
// 仅追加；评价完成后的学时修正必须经由此表留痕
type HoursAdjustment struct {
	HoursAdjustmentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"hours_adjustment_id"`
	SerialHistoryID   string    `gorm:"type:uuid;not null"                             json:"serial_history_id"`
	PreviousHours     int       `gorm:"not null"                                       json:"previous_hours"`
	NewHours          int       `gorm:"not null"                                       json:"new_hours"`
	Reason            string    `gorm:"type:varchar(500);not null"                     json:"reason"`
	AdjustedBy        string    `gorm:"type:uuid;not null"                             json:"adjusted_by"`
	CreatedAt         time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (HoursAdjustment) TableName() string { return "hours_adjustments" }
