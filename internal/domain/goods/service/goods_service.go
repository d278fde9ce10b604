package service

import (
	"errors"

	"shop_trade/internal/domain/goods/model"
	"shop_trade/internal/domain/goods/repository"

	"gorm.io/gorm"
)

var (
	ErrGoodsNotFound     = errors.New("goods not found")
	ErrGoodsInactive     = errors.New("goods is inactive")
	ErrInsufficientStock = repository.ErrInsufficientStock
)

// Snapshot 商品快照，下单时的价格/库存/类型视图
type Snapshot struct {
	GoodsID   uint64
	Name      string
	GoodsType string
	SellerID  uint64
	Price     int64 // 分
	CoinPrice int64
	Stock     int64
	IsActive  bool
}

// GoodsService 商品服务接口
// 订单核心消费的窄接口：快照读取 + 原子库存扣减/回补
type GoodsService interface {
	CreateGoods(goods *model.Goods) error
	GetGoods(id uint64) (*model.Goods, error)
	GetGoodsList(page, limit int) ([]model.Goods, int64, error)
	GetSnapshot(goodsID uint64) (*Snapshot, error)
	DecrementStock(goodsID uint64, qty int64) error
	RestoreStock(goodsID uint64, qty int64) error
	SetActive(goodsID uint64, active bool) error
}

type goodsService struct {
	repo repository.GoodsRepository
}

func NewGoodsService(repo repository.GoodsRepository) GoodsService {
	return &goodsService{repo: repo}
}

func (s *goodsService) CreateGoods(goods *model.Goods) error {
	if !model.ValidType(goods.GoodsType) {
		return errors.New("invalid goods type")
	}
	return s.repo.Create(goods)
}

func (s *goodsService) GetGoods(id uint64) (*model.Goods, error) {
	goods, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGoodsNotFound
		}
		return nil, err
	}
	return goods, nil
}

func (s *goodsService) GetGoodsList(page, limit int) ([]model.Goods, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	return s.repo.GetList((page-1)*limit, limit)
}

// GetSnapshot 获取下单用商品快照
// 下架商品返回 ErrGoodsInactive，调用方不应创建订单
func (s *goodsService) GetSnapshot(goodsID uint64) (*Snapshot, error) {
	goods, err := s.GetGoods(goodsID)
	if err != nil {
		return nil, err
	}
	if goods.Status != model.StatusActive {
		return nil, ErrGoodsInactive
	}

	return &Snapshot{
		GoodsID:   goods.ID,
		Name:      goods.Name,
		GoodsType: goods.GoodsType,
		SellerID:  goods.SellerID,
		Price:     goods.Price,
		CoinPrice: goods.CoinPrice,
		Stock:     goods.Stock,
		IsActive:  true,
	}, nil
}

func (s *goodsService) DecrementStock(goodsID uint64, qty int64) error {
	return s.repo.DecrementStock(goodsID, qty)
}

func (s *goodsService) RestoreStock(goodsID uint64, qty int64) error {
	return s.repo.RestoreStock(goodsID, qty)
}

func (s *goodsService) SetActive(goodsID uint64, active bool) error {
	status := model.StatusInactive
	if active {
		status = model.StatusActive
	}
	return s.repo.UpdateStatus(goodsID, status)
}
