package usecase

import (
	"context"
	"fmt"
	"time"

	"ride-marketplace/internal/data/entity"
	"ride-marketplace/internal/data/repository"
	"ride-marketplace/internal/dto/request"
	"ride-marketplace/internal/dto/response"
	"ride-marketplace/pkg/apperr"
	"ride-marketplace/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error)
	GetProfile(ctx context.Context, userID string) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *request.UpdateProfileRequest) (*response.UserResponse, error)

	// FindOrCreateByTelegram resolves the chat identity for the bot front
	// end, auto-registering unknown chat users as passengers.
	FindOrCreateByTelegram(ctx context.Context, telegramID, username string) (*entity.User, error)
}

type userService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewUserService(repo *repository.Repository, log *zap.Logger) UserService {
	return &userService{
		repo: repo,
		log:  log.With(zap.String("service", "user")),
	}
}

func (s *userService) Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, apperr.Validation("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// Check email not already registered
	existingUser, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existingUser != nil {
		return nil, apperr.Validation("email already registered")
	}

	// Check username not already taken
	existingUser, err = s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if existingUser != nil {
		return nil, apperr.Validation("username already taken")
	}

	// Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := entity.RolePassenger
	if req.Role != "" {
		role = entity.UserRole(req.Role)
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:      req.Username,
		Email:         req.Email,
		PasswordHash:  hashedPassword,
		FullName:      req.FullName,
		PhoneNumber:   req.PhoneNumber,
		TelegramID:    req.TelegramID,
		WalletAddress: req.WalletAddress,
		Role:          role,
		Rating:        5.0,
		IsVerified:    false,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
	)

	userResp := response.UserToResponse(user)
	return &userResp, nil
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*response.UserResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperr.Validation("invalid user ID format %s", userID)
	}

	user, err := s.repo.User.FindByID(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user %s not found", userID)
	}

	userResp := response.UserToResponse(user)
	return &userResp, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update profile validation failed", zap.Any("errors", errs))
		return nil, apperr.Validation("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperr.Validation("invalid user ID format %s", userID)
	}

	user, err := s.repo.User.FindByID(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user %s not found", userID)
	}

	// Apply only the fields present in the patch
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.TelegramID != nil {
		user.TelegramID = req.TelegramID
	}
	if req.WalletAddress != nil {
		user.WalletAddress = req.WalletAddress
	}
	if req.Role != nil {
		user.Role = entity.UserRole(*req.Role)
	}
	user.UpdatedAt = time.Now()

	if err := s.repo.User.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.log.Info("User profile updated", zap.String("user_id", userID))

	userResp := response.UserToResponse(user)
	return &userResp, nil
}

func (s *userService) FindOrCreateByTelegram(ctx context.Context, telegramID, username string) (*entity.User, error) {
	user, err := s.repo.User.FindByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("find telegram user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	now := time.Now()
	user = &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:    fmt.Sprintf("tg_%s", telegramID),
		Email:       fmt.Sprintf("tg_%s@telegram.local", telegramID),
		FullName:    username,
		PhoneNumber: "",
		TelegramID:  &telegramID,
		Role:        entity.RolePassenger,
		Rating:      5.0,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("register telegram user: %w", err)
	}

	s.log.Info("Telegram user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("telegram_id", telegramID),
	)

	return user, nil
}
