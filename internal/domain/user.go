package domain

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is a user's authorization role.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ValidRole reports whether s is a known role.
func ValidRole(s string) bool {
	return Role(s) == RoleUser || Role(s) == RoleAdmin
}

const (
	// OTPLength is the number of digits in a login OTP.
	OTPLength = 6
	// OTPExpiration is how long an issued OTP stays valid.
	OTPExpiration = 5 * time.Minute
	// OTPResendInterval is the minimum gap between OTP issues per email.
	OTPResendInterval = 60 * time.Second
)

// User is a registered account.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	OTP          *string    `json:"-"`
	OTPExpiresAt *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewUser creates a user with a normalized email. Role defaults to "user".
func NewUser(email, passwordHash string, role Role) *User {
	if role == "" {
		role = RoleUser
	}
	now := time.Now()
	return &User{
		ID:           uuid.New().String(),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NormalizeEmail lowercases and trims an email address. Emails are unique
// case-insensitively, so every lookup and store goes through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// OTPState describes the state of a user's stored OTP.
type OTPState int

const (
	// OTPAbsent means no OTP is stored.
	OTPAbsent OTPState = iota
	// OTPExpired means an OTP is stored but past its expiry.
	OTPExpired
	// OTPActive means an OTP is stored and still valid.
	OTPActive
)

// OTPStatus returns the state of the stored OTP at the given instant.
// The otp and otp_expires_at fields are always both-set or both-null;
// a half-set pair is treated as absent.
func (u *User) OTPStatus(now time.Time) OTPState {
	if u.OTP == nil || u.OTPExpiresAt == nil {
		return OTPAbsent
	}
	if now.After(*u.OTPExpiresAt) {
		return OTPExpired
	}
	return OTPActive
}

// SetOTP stores a fresh OTP with its expiry.
func (u *User) SetOTP(code string, now time.Time) {
	expires := now.Add(OTPExpiration)
	u.OTP = &code
	u.OTPExpiresAt = &expires
	u.UpdatedAt = now
}

// ClearOTP removes the stored OTP pair.
func (u *User) ClearOTP(now time.Time) {
	u.OTP = nil
	u.OTPExpiresAt = nil
	u.UpdatedAt = now
}

// MatchesOTP reports whether code equals the stored OTP.
func (u *User) MatchesOTP(code string) bool {
	return u.OTP != nil && *u.OTP == code
}

// GenerateOTP returns a random numeric code of OTPLength digits.
func GenerateOTP() (string, error) {
	max := 1
	for i := 0; i < OTPLength; i++ {
		max *= 10
	}

	bytes := make([]byte, 4)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}

	n := int(bytes[0])<<24 | int(bytes[1])<<16 | int(bytes[2])<<8 | int(bytes[3])
	if n < 0 {
		n = -n
	}
	return fmt.Sprintf("%0*d", OTPLength, n%max), nil
}
