package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel 基础模型，使用自增数字主键
// 订单等业务实体需要对外暴露数字 ID，不使用 UUID
type BaseModel struct {
	ID        uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`
}
