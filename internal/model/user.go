package model

import "time"

const (
	RoleEmployee      = "employee"
	RoleManager       = "manager"
	RoleSecurityAdmin = "security_admin"
)

// ValidRole reports whether role is one of the three known authorization labels.
// Roles are compared by exact string equality everywhere; there is no hierarchy.
func ValidRole(role string) bool {
	switch role {
	case RoleEmployee, RoleManager, RoleSecurityAdmin:
		return true
	}
	return false
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile is the single canonical user representation returned by every
// endpoint. Area membership is exposed through a separate query, never
// embedded here.
func (u User) Profile() UserProfile {
	return UserProfile{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

type UserProfile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// AccessClaims is the decoded payload of a signed access token. It is never
// persisted; validity is signature plus expiry only.
type AccessClaims struct {
	Username  string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// RefreshToken is one row of the refresh-token ledger. The Token value itself
// is the opaque credential handed to the client. Revoked is monotonic: once
// true it is never reset, and revoked rows are kept as an audit trail.
type RefreshToken struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}

// Usable reports whether the token may still be exchanged at the given time.
func (t RefreshToken) Usable(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}
