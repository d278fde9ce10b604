package repository

import (
	"errors"

	"shop_trade/internal/domain/goods/model"

	"gorm.io/gorm"
)

var ErrInsufficientStock = errors.New("insufficient stock")

type GoodsRepository interface {
	Create(goods *model.Goods) error
	GetByID(id uint64) (*model.Goods, error)
	GetList(offset, limit int) ([]model.Goods, int64, error)
	DecrementStock(goodsID uint64, qty int64) error
	RestoreStock(goodsID uint64, qty int64) error
	UpdateStatus(goodsID uint64, status int) error
}

type goodsRepository struct {
	db *gorm.DB
}

func NewGoodsRepository(db *gorm.DB) GoodsRepository {
	return &goodsRepository{db: db}
}

func (r *goodsRepository) Create(goods *model.Goods) error {
	return r.db.Create(goods).Error
}

func (r *goodsRepository) GetByID(id uint64) (*model.Goods, error) {
	var goods model.Goods
	if err := r.db.First(&goods, id).Error; err != nil {
		return nil, err
	}
	return &goods, nil
}

func (r *goodsRepository) GetList(offset, limit int) ([]model.Goods, int64, error) {
	var list []model.Goods
	var total int64

	if err := r.db.Model(&model.Goods{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := r.db.Offset(offset).Limit(limit).Order("id DESC").Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// DecrementStock 条件更新扣减库存，库存不足时不更新任何行
// 并发创建订单依赖这里的原子性，禁止先读后写
func (r *goodsRepository) DecrementStock(goodsID uint64, qty int64) error {
	result := r.db.Model(&model.Goods{}).
		Where("id = ? AND stock >= ?", goodsID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// RestoreStock 回补库存，取消订单或下单失败回滚时调用
func (r *goodsRepository) RestoreStock(goodsID uint64, qty int64) error {
	return r.db.Model(&model.Goods{}).
		Where("id = ?", goodsID).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty)).Error
}

func (r *goodsRepository) UpdateStatus(goodsID uint64, status int) error {
	return r.db.Model(&model.Goods{}).
		Where("id = ?", goodsID).
		Update("status", status).Error
}
