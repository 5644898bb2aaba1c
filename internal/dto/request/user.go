package request

// UpdateProfileRequest is an explicit optional-field patch: only non-nil
// fields are applied, through named-field assignment.
type UpdateProfileRequest struct {
	FullName      *string `json:"full_name,omitempty"`
	PhoneNumber   *string `json:"phone_number,omitempty"`
	TelegramID    *string `json:"telegram_id,omitempty"`
	WalletAddress *string `json:"wallet_address,omitempty"`
	Role          *string `json:"role,omitempty" validate:"omitempty,oneof=driver passenger both"`
}
