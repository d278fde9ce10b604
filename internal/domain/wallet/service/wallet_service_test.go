package service

import (
	"testing"

	"shop_trade/internal/domain/wallet/model"
	"shop_trade/internal/domain/wallet/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockWalletRepository is a mock of WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) GetByUserID(userID uint64) (*model.Wallet, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Wallet), args.Error(1)
}

func (m *MockWalletRepository) EnsureWallet(userID uint64) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockWalletRepository) Debit(key model.Key, amount int64, currency string) error {
	args := m.Called(key, amount, currency)
	return args.Error(0)
}

func (m *MockWalletRepository) Credit(key model.Key, amount int64, currency string) error {
	args := m.Called(key, amount, currency)
	return args.Error(0)
}

func testKey() model.Key {
	return model.Key{UserID: 100, BusinessID: "ORDER1", OpKind: model.OpKindOrderPay}
}

func TestDebit(t *testing.T) {
	t.Run("Debit success", func(t *testing.T) {
		mockRepo := new(MockWalletRepository)
		service := NewWalletService(mockRepo)

		mockRepo.On("Debit", testKey(), int64(500), model.CurrencyCoin).Return(nil)

		err := service.Debit(testKey(), 500, model.CurrencyCoin)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Duplicate debit treated as success", func(t *testing.T) {
		mockRepo := new(MockWalletRepository)
		service := NewWalletService(mockRepo)

		mockRepo.On("Debit", testKey(), int64(500), model.CurrencyCoin).
			Return(repository.ErrDuplicateTransaction)

		err := service.Debit(testKey(), 500, model.CurrencyCoin)

		assert.NoError(t, err)
		mockRepo.AssertNumberOfCalls(t, "Debit", 1)
	})

	t.Run("Insufficient balance propagates", func(t *testing.T) {
		mockRepo := new(MockWalletRepository)
		service := NewWalletService(mockRepo)

		mockRepo.On("Debit", testKey(), int64(500), model.CurrencyCoin).
			Return(repository.ErrInsufficientBalance)

		err := service.Debit(testKey(), 500, model.CurrencyCoin)

		assert.ErrorIs(t, err, ErrInsufficientBalance)
	})

	t.Run("Non-positive amount rejected", func(t *testing.T) {
		mockRepo := new(MockWalletRepository)
		service := NewWalletService(mockRepo)

		assert.Error(t, service.Debit(testKey(), 0, model.CurrencyCoin))
		assert.Error(t, service.Debit(testKey(), -1, model.CurrencyCoin))
		mockRepo.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCredit(t *testing.T) {
	t.Run("Credit ensures wallet then books", func(t *testing.T) {
		mockRepo := new(MockWalletRepository)
		service := NewWalletService(mockRepo)

		mockRepo.On("EnsureWallet", uint64(100)).Return(nil)
		mockRepo.On("Credit", testKey(), int64(500), model.CurrencyCoin).Return(nil)

		err := service.Credit(testKey(), 500, model.CurrencyCoin)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Duplicate credit treated as success", func(t *testing.T) {
		mockRepo := new(MockWalletRepository)
		service := NewWalletService(mockRepo)

		mockRepo.On("EnsureWallet", uint64(100)).Return(nil)
		mockRepo.On("Credit", testKey(), int64(500), model.CurrencyCoin).
			Return(repository.ErrDuplicateTransaction)

		err := service.Credit(testKey(), 500, model.CurrencyCoin)

		assert.NoError(t, err)
	})
}

func TestRecharge(t *testing.T) {
	mockRepo := new(MockWalletRepository)
	service := NewWalletService(mockRepo)

	key := model.Key{UserID: 100, BusinessID: "biz-1", OpKind: model.OpKindRecharge}
	mockRepo.On("EnsureWallet", uint64(100)).Return(nil)
	mockRepo.On("Credit", key, int64(10000), model.CurrencyCash).Return(nil)

	err := service.Recharge(100, 10000, model.CurrencyCash, "biz-1")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestCheckBalance(t *testing.T) {
	t.Run("Sufficient coin balance", func(t *testing.T) {
		mockRepo := new(MockWalletRepository)
		service := NewWalletService(mockRepo)

		mockRepo.On("GetByUserID", uint64(100)).Return(&model.Wallet{
			UserID: 100, CashBalance: 100, CoinBalance: 5000,
		}, nil)

		ok, err := service.CheckBalance(100, 4999, model.CurrencyCoin)

		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Insufficient cash balance", func(t *testing.T) {
		mockRepo := new(MockWalletRepository)
		service := NewWalletService(mockRepo)

		mockRepo.On("GetByUserID", uint64(100)).Return(&model.Wallet{
			UserID: 100, CashBalance: 100, CoinBalance: 5000,
		}, nil)

		ok, err := service.CheckBalance(100, 101, model.CurrencyCash)

		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Missing wallet means zero balance", func(t *testing.T) {
		mockRepo := new(MockWalletRepository)
		service := NewWalletService(mockRepo)

		mockRepo.On("GetByUserID", uint64(100)).Return(nil, gorm.ErrRecordNotFound)

		ok, err := service.CheckBalance(100, 1, model.CurrencyCoin)

		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestGetWallet(t *testing.T) {
	mockRepo := new(MockWalletRepository)
	service := NewWalletService(mockRepo)

	mockRepo.On("GetByUserID", uint64(100)).Return(nil, gorm.ErrRecordNotFound)

	_, err := service.GetWallet(100)

	assert.ErrorIs(t, err, ErrWalletNotFound)
}
