package service

import (
	"js_learning_backend/internal/model"
	"js_learning_backend/internal/repository"
	"js_learning_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService 处理用户资料和管理员名册相关的业务逻辑
type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

// GetUsers 按角色获取用户列表，支持分页
func (s *UserService) GetUsers(role model.UserRole, page, limit int) ([]model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.UserRepo.ListByRole(role, page, limit)
}

func (s *UserService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

type ProfileReq struct {
	Username *string `json:"username"`
	Avatar   *string `json:"avatar"`
}

// UpdateProfile 更新个人资料，用户名需保持唯一
func (s *UserService) UpdateProfile(userID uint, req ProfileReq) (*model.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil && *req.Username != user.Username {
		if existing, err := s.UserRepo.FindByUsername(*req.Username); err == nil && existing.ID != userID {
			return nil, util.ErrUsernameRegistered
		} else if err != nil && err != gorm.ErrRecordNotFound {
			return nil, err
		}
		user.Username = *req.Username
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return util.ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	return s.UserRepo.Update(user)
}

// SetDisabled 管理员停用/启用账号
func (s *UserService) SetDisabled(userID uint, disabled bool) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	user.Disabled = disabled
	return s.UserRepo.Update(user)
}

// SetRole 管理员调整用户角色
func (s *UserService) SetRole(userID uint, role model.UserRole) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	user.Role = role
	return s.UserRepo.Update(user)
}
