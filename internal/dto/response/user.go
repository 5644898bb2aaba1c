package response

import (
	"time"

	"ride-marketplace/internal/data/entity"
)

type UserResponse struct {
	ID            string          `json:"id"`
	Username      string          `json:"username"`
	Email         string          `json:"email"`
	FullName      string          `json:"full_name"`
	PhoneNumber   string          `json:"phone_number"`
	TelegramID    *string         `json:"telegram_id,omitempty"`
	WalletAddress *string         `json:"wallet_address,omitempty"`
	Role          entity.UserRole `json:"role"`
	Rating        float64         `json:"rating"`
	IsVerified    bool            `json:"is_verified"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Helper converter
func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:            user.ID.String(),
		Username:      user.Username,
		Email:         user.Email,
		FullName:      user.FullName,
		PhoneNumber:   user.PhoneNumber,
		TelegramID:    user.TelegramID,
		WalletAddress: user.WalletAddress,
		Role:          user.Role,
		Rating:        user.Rating,
		IsVerified:    user.IsVerified,
		CreatedAt:     user.CreatedAt,
	}
}
