package model

import "time"

// Admin represents a console administrator account. Accounts are created in a
// deactivated state by the first-access flow and only become sign-in-capable
// once their token is consumed (EmailConfirmedAt set, password bound).
type Admin struct {
	ID               int        `json:"id"`
	Email            string     `json:"email"`
	Name             string     `json:"name"`
	PasswordHash     string     `json:"-"`
	Role             Role       `json:"role"`
	SchoolID         *int       `json:"school_id,omitempty"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at,omitempty"`
	LastSignInAt     *time.Time `json:"last_sign_in_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Active reports whether the account has completed first access.
func (a *Admin) Active() bool {
	return a.EmailConfirmedAt != nil
}

// AdminLoginRequest is the payload for admin authentication.
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// AdminLoginResponse is returned after successful admin login.
type AdminLoginResponse struct {
	Token string `json:"token"`
	Admin Admin  `json:"admin"`
}
