package service

import (
	"testing"

	"shop_trade/internal/domain/user/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockUserRepository is a mock of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id uint64) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByMobile(mobile string) (*model.User, error) {
	args := m.Called(mobile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Exists(id uint64) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Update(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func createTestUser(id uint64, mobile string) *model.User {
	user := &model.User{
		Mobile:   mobile,
		Nickname: "TestUser",
		Role:     model.RoleUser,
		Status:   model.StatusNormal,
	}
	user.ID = id
	return user
}

func TestLoginOrRegister(t *testing.T) {
	t.Run("New user registration success", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(mockRepo)

		mobile := "13800138000"
		mockRepo.On("GetByMobile", mobile).Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", mock.AnythingOfType("*model.User")).Return(nil)

		token, err := service.LoginOrRegister(mobile)

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Existing user login success", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(mockRepo)

		mobile := "13800138001"
		mockRepo.On("GetByMobile", mobile).Return(createTestUser(1, mobile), nil)

		token, err := service.LoginOrRegister(mobile)

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("Banned user rejected", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(mockRepo)

		mobile := "13800138002"
		user := createTestUser(2, mobile)
		user.Status = model.StatusBanned
		mockRepo.On("GetByMobile", mobile).Return(user, nil)

		token, err := service.LoginOrRegister(mobile)

		assert.Error(t, err)
		assert.Empty(t, token)
	})
}

func TestExists(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserService(mockRepo)

	mockRepo.On("Exists", uint64(1)).Return(true, nil)
	mockRepo.On("Exists", uint64(2)).Return(false, nil)

	ok, err := service.Exists(1)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = service.Exists(2)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestDisplayName(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserService(mockRepo)

	mockRepo.On("GetByID", uint64(1)).Return(createTestUser(1, "13800138000"), nil)

	name, err := service.DisplayName(1)

	assert.NoError(t, err)
	assert.Equal(t, "TestUser", name)
}
