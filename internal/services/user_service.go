package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yusurko/freak/internal/models"
	"github.com/yusurko/freak/internal/repositories"
	"github.com/yusurko/freak/internal/utils"
	"github.com/yusurko/freak/middleware/jwt"
	"github.com/yusurko/freak/utils/snowflake"
)

type UserService struct {
	UserRepo *repositories.UserRepository
	IDGen    *snowflake.Generator
}

func NewUserService(userRepo *repositories.UserRepository, idGen *snowflake.Generator) *UserService {
	return &UserService{UserRepo: userRepo, IDGen: idGen}
}

// Register 注册新用户。用户名唯一性靠数据库约束兜底；
// 展示名缺省取用户名
func (s *UserService) Register(ctx context.Context, username, displayName, password, email, clientIP string) (*models.User, error) {
	if !utils.UsernameIsLegal(username) {
		return nil, ErrInvalidUsername
	}
	if displayName == "" {
		displayName = username
	}
	if !utils.ValidatePassword(password) {
		return nil, ErrWeakPassword
	}
	if email != "" && !utils.ValidateEmail(email) {
		return nil, ErrInvalidEmail
	}

	if _, err := s.UserRepo.GetByUsername(ctx, username); err == nil {
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	passhash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	id, err := s.IDGen.NextID()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:          id,
		Username:    username,
		DisplayName: displayName,
		Passhash:    passhash,
		JoinedAt:    time.Now(),
		JoinedIP:    clientIP,
	}
	if email != "" {
		user.Email = &email
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	return user, nil
}

// Login 校验口令并签发 JWT。封禁中的账号拒绝登录
func (s *UserService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.UserRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrPasswordIncorrect
		}
		return "", nil, err
	}
	if !utils.CheckPassword(user.Passhash, password) {
		return "", nil, ErrPasswordIncorrect
	}
	if user.IsSuspended(time.Now()) {
		return "", nil, ErrAccountSuspended
	}

	token, err := jwt.GenerateToken(user.ID, user.Username, user.IsAdministrator)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// GetByUsername 按用户名取用户
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.UserRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Suspend 全站封禁，仅限管理员。until 为空表示无限期
func (s *UserService) Suspend(ctx context.Context, actor *models.User, targetID int64, reason int16, until *time.Time) error {
	if actor == nil || !actor.IsAdministrator {
		return ErrUnauthorized
	}
	return s.UserRepo.Suspend(ctx, targetID, actor.ID, reason, until)
}
