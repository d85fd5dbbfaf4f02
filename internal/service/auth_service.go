package service

import (
	"errors"

	"studperf_backend/internal/config"
	"studperf_backend/internal/model"
	"studperf_backend/internal/repository"
	"studperf_backend/internal/util"
	"studperf_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	users       *repository.UserRepository
	predictions *repository.PredictionRepository
	cfg         *config.Config
}

func NewAuthService(users *repository.UserRepository, predictions *repository.PredictionRepository, cfg *config.Config) *AuthService {
	return &AuthService{users: users, predictions: predictions, cfg: cfg}
}

// RegisterInput 注册请求；USN 与院系仅学生账号需要
type RegisterInput struct {
	Name       string         `json:"name" binding:"required,min=2,max=100"`
	Email      string         `json:"email" binding:"required,email"`
	Password   string         `json:"password" binding:"required,min=6,max=72"`
	Role       model.UserRole `json:"role"`
	USN        string         `json:"usn"`
	Department string         `json:"department"`
}

// Register 创建账号；邮箱唯一，密码 bcrypt 存储
func (s *AuthService) Register(input RegisterInput) (*model.User, error) {
	if _, err := s.users.FindByEmail(input.Email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role != model.Student && role != model.Faculty {
		role = model.Student
	}

	user := &model.User{
		Name:       input.Name,
		Email:      input.Email,
		Password:   string(hashed),
		Role:       role,
		USN:        input.USN,
		Department: input.Department,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	logger.Log.Info("User registered",
		zap.Uint("user_id", user.ID),
		zap.String("role", string(user.Role)))
	return user, nil
}

// Login 校验凭证并签发 JWT；凭证错误统一返回 ErrInvalidCredentials，
// 不区分"邮箱不存在"和"密码错误"。
func (s *AuthService) Login(email, password string) (string, *model.User, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, util.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.cfg.JWT.Secret, s.cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}

	if err := s.users.UpdateLastLogin(user.ID); err != nil {
		logger.Log.Warn("Failed to update last login", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	logger.Log.Info("User logged in", zap.Uint("user_id", user.ID))
	return token, user, nil
}

// Logout 注销即抹除该用户的预测历史（产品约定：会话数据不跨登录保留）
func (s *AuthService) Logout(userID uint) error {
	if err := s.predictions.ClearByUser(userID); err != nil {
		return err
	}
	logger.Log.Info("User logged out, prediction history cleared", zap.Uint("user_id", userID))
	return nil
}

// Profile 当前用户资料及其累计预测次数
func (s *AuthService) Profile(userID uint) (*model.User, int64, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, util.ErrUserNotFound
		}
		return nil, 0, err
	}

	count, err := s.predictions.CountByUser(userID)
	if err != nil {
		logger.Log.Warn("Failed to count predictions", zap.Uint("user_id", userID), zap.Error(err))
	}
	return user, count, nil
}
