package entity

type UserRole string

const (
	RoleDriver    UserRole = "driver"
	RolePassenger UserRole = "passenger"
	RoleBoth      UserRole = "both"
)

// CanDrive reports whether the role allows offering rides
func (r UserRole) CanDrive() bool {
	return r == RoleDriver || r == RoleBoth
}

type User struct {
	Base
	Username      string   `db:"username"`
	Email         string   `db:"email"`
	PasswordHash  string   `db:"password_hash"`
	FullName      string   `db:"full_name"`
	PhoneNumber   string   `db:"phone_number"`
	TelegramID    *string  `db:"telegram_id"`
	WalletAddress *string  `db:"wallet_address"`
	Role          UserRole `db:"role"`
	Rating        float64  `db:"rating"` // mean of received review ratings, 5.0 before any review
	IsVerified    bool     `db:"is_verified"`
}
