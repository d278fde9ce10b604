package repository

import (
	"errors"

	"shop_trade/internal/domain/wallet/model"

	"gorm.io/gorm"
)

var (
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrDuplicateTransaction = errors.New("duplicate wallet transaction")
)

type WalletRepository interface {
	GetByUserID(userID uint64) (*model.Wallet, error)
	EnsureWallet(userID uint64) error
	// Debit 扣减余额，流水插入与余额条件更新在同一事务内
	Debit(key model.Key, amount int64, currency string) error
	// Credit 入账，幂等语义与 Debit 相同
	Credit(key model.Key, amount int64, currency string) error
}

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) GetByUserID(userID uint64) (*model.Wallet, error) {
	var wallet model.Wallet
	if err := r.db.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

// EnsureWallet 钱包不存在时创建空钱包
func (r *walletRepository) EnsureWallet(userID uint64) error {
	var count int64
	if err := r.db.Model(&model.Wallet{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	err := r.db.Create(&model.Wallet{UserID: userID}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// 并发创建，已存在即可
		return nil
	}
	return err
}

func balanceColumn(currency string) string {
	if currency == model.CurrencyCoin {
		return "coin_balance"
	}
	return "cash_balance"
}

func (r *walletRepository) Debit(key model.Key, amount int64, currency string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// 1. 插入流水，唯一索引冲突说明是重放
		txn := &model.WalletTransaction{
			UserID:     key.UserID,
			BusinessID: key.BusinessID,
			OpKind:     key.OpKind,
			Currency:   currency,
			Amount:     amount,
		}
		if err := tx.Create(txn).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateTransaction
			}
			return err
		}

		// 2. 条件更新扣减余额，余额不足时零行更新，整个事务回滚
		col := balanceColumn(currency)
		result := tx.Model(&model.Wallet{}).
			Where("user_id = ? AND "+col+" >= ?", key.UserID, amount).
			UpdateColumn(col, gorm.Expr(col+" - ?", amount))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInsufficientBalance
		}
		return nil
	})
}

func (r *walletRepository) Credit(key model.Key, amount int64, currency string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txn := &model.WalletTransaction{
			UserID:     key.UserID,
			BusinessID: key.BusinessID,
			OpKind:     key.OpKind,
			Currency:   currency,
			Amount:     -amount,
		}
		if err := tx.Create(txn).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateTransaction
			}
			return err
		}

		col := balanceColumn(currency)
		result := tx.Model(&model.Wallet{}).
			Where("user_id = ?", key.UserID).
			UpdateColumn(col, gorm.Expr(col+" + ?", amount))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// 钱包不存在，入账前必须先有钱包
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
