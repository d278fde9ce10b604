package service

import (
	"errors"

	"shop_trade/internal/domain/user/model"
	"shop_trade/internal/domain/user/repository"
	"shop_trade/pkg/utils"

	"gorm.io/gorm"
)

// UserService 用户服务接口
// 订单核心消费的窄接口：存在性检查 + 展示名
type UserService interface {
	LoginOrRegister(mobile string) (string, error)
	GetUser(id uint64) (*model.User, error)
	Exists(id uint64) (bool, error)
	DisplayName(id uint64) (string, error)
}

// userService 实现
type userService struct {
	repo repository.UserRepository
}

// NewUserService 创建用户服务
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

// LoginOrRegister 登录或注册
func (s *userService) LoginOrRegister(mobile string) (string, error) {
	user, err := s.repo.GetByMobile(mobile)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 不存在则注册
			user = &model.User{
				Mobile:   mobile,
				Nickname: "User_" + mobile[len(mobile)-4:], // 默认昵称
				Role:     model.RoleUser,
			}
			if err := s.repo.Create(user); err != nil {
				return "", err
			}
		} else {
			return "", err
		}
	}

	if user.Status == model.StatusBanned {
		return "", errors.New("account is banned")
	}
	if user.Status == model.StatusDeleted {
		return "", errors.New("account has been deleted")
	}

	token, _, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", err
	}
	return token, nil
}

// GetUser 获取单个用户
func (s *userService) GetUser(id uint64) (*model.User, error) {
	return s.repo.GetByID(id)
}

// Exists 用户是否存在
func (s *userService) Exists(id uint64) (bool, error) {
	return s.repo.Exists(id)
}

// DisplayName 获取展示名
func (s *userService) DisplayName(id uint64) (string, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return "", err
	}
	return user.Nickname, nil
}
