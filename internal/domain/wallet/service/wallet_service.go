package service

import (
	"errors"

	"shop_trade/internal/domain/wallet/model"
	"shop_trade/internal/domain/wallet/repository"
	"shop_trade/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrInsufficientBalance = repository.ErrInsufficientBalance
	ErrWalletNotFound      = errors.New("wallet not found")
)

// WalletService 钱包服务接口
// 订单核心消费的窄接口：余额检查 + 带幂等键的扣减/入账
type WalletService interface {
	GetWallet(userID uint64) (*model.Wallet, error)
	CheckBalance(userID uint64, amount int64, currency string) (bool, error)
	// Debit 扣减余额。同一幂等键重放返回 nil 且不产生第二次扣减
	Debit(key model.Key, amount int64, currency string) error
	// Credit 入账。幂等语义与 Debit 相同
	Credit(key model.Key, amount int64, currency string) error
	// Recharge 管理端充值
	Recharge(userID uint64, amount int64, currency string, businessID string) error
}

type walletService struct {
	repo repository.WalletRepository
}

func NewWalletService(repo repository.WalletRepository) WalletService {
	return &walletService{repo: repo}
}

func (s *walletService) GetWallet(userID uint64) (*model.Wallet, error) {
	wallet, err := s.repo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return wallet, nil
}

func (s *walletService) CheckBalance(userID uint64, amount int64, currency string) (bool, error) {
	wallet, err := s.GetWallet(userID)
	if err != nil {
		if errors.Is(err, ErrWalletNotFound) {
			return false, nil
		}
		return false, err
	}
	if currency == model.CurrencyCoin {
		return wallet.CoinBalance >= amount, nil
	}
	return wallet.CashBalance >= amount, nil
}

func (s *walletService) Debit(key model.Key, amount int64, currency string) error {
	if amount <= 0 {
		return errors.New("debit amount must be positive")
	}
	err := s.repo.Debit(key, amount, currency)
	if errors.Is(err, repository.ErrDuplicateTransaction) {
		// 幂等重放，第一次扣减已生效
		logger.Log.Info("Duplicate wallet debit ignored",
			zap.Uint64("user_id", key.UserID),
			zap.String("business_id", key.BusinessID),
			zap.String("op_kind", key.OpKind))
		return nil
	}
	return err
}

func (s *walletService) Credit(key model.Key, amount int64, currency string) error {
	if amount <= 0 {
		return errors.New("credit amount must be positive")
	}
	if err := s.repo.EnsureWallet(key.UserID); err != nil {
		return err
	}
	err := s.repo.Credit(key, amount, currency)
	if errors.Is(err, repository.ErrDuplicateTransaction) {
		logger.Log.Info("Duplicate wallet credit ignored",
			zap.Uint64("user_id", key.UserID),
			zap.String("business_id", key.BusinessID),
			zap.String("op_kind", key.OpKind))
		return nil
	}
	return err
}

func (s *walletService) Recharge(userID uint64, amount int64, currency string, businessID string) error {
	key := model.Key{
		UserID:     userID,
		BusinessID: businessID,
		OpKind:     model.OpKindRecharge,
	}
	return s.Credit(key, amount, currency)
}
