package model

import (
	baseModel "shop_trade/pkg/model"
)

// User 用户模型
// 订单核心只依赖用户的存在性与展示名，完整的用户资料管理在独立服务中
type User struct {
	baseModel.BaseModel
	Mobile   string `gorm:"unique;not null" json:"mobile"`
	Nickname string `json:"nickname"`
	Role     int    `gorm:"default:0" json:"role"`
	Status   int    `gorm:"default:0" json:"status"`
}

const (
	RoleUser   = 0
	RoleSeller = 1
	RoleAdmin  = 2

	StatusNormal  = 0
	StatusBanned  = 1
	StatusDeleted = 2
)
