package domain

import "strings"

// Role is the marketplace role carried by every user account.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTeacher Role = "TEACHER"
	RoleAdmin   Role = "ADMIN"
)

// Roles lists every role the backend issues.
var Roles = []Role{RoleStudent, RoleTeacher, RoleAdmin}

// ValidRole returns true if r is a known role.
func ValidRole(r Role) bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// User is the cached copy of a backend account.
type User struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Surname     string `json:"surname,omitempty"`
	Role        Role   `json:"role"`
	Avatar      string `json:"avatar,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Biography   string `json:"biography,omitempty"`
	Active      bool   `json:"active"`
	LinkedinURL string `json:"linkedinUrl,omitempty"`
	WebsiteURL  string `json:"websiteUrl,omitempty"`
	CreatedAt   Time   `json:"createdAt,omitzero"`
	UpdatedAt   Time   `json:"updatedAt,omitzero"`
}

// FullName joins name and surname, trimmed.
func (u User) FullName() string {
	return strings.TrimSpace(u.Name + " " + u.Surname)
}

// UserPatch holds optional profile fields. Nil fields are left untouched by Apply.
type UserPatch struct {
	Email       *string `json:"email,omitempty"`
	Name        *string `json:"name,omitempty"`
	Surname     *string `json:"surname,omitempty"`
	Avatar      *string `json:"avatar,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Biography   *string `json:"biography,omitempty"`
	LinkedinURL *string `json:"linkedinUrl,omitempty"`
	WebsiteURL  *string `json:"websiteUrl,omitempty"`
}

// Apply merges the set fields of p into u.
func (p UserPatch) Apply(u *User) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&u.Email, p.Email)
	set(&u.Name, p.Name)
	set(&u.Surname, p.Surname)
	set(&u.Avatar, p.Avatar)
	set(&u.PhoneNumber, p.PhoneNumber)
	set(&u.Biography, p.Biography)
	set(&u.LinkedinURL, p.LinkedinURL)
	set(&u.WebsiteURL, p.WebsiteURL)
}

// PatchFromUser builds a patch carrying every profile field of u.
func PatchFromUser(u User) UserPatch {
	return UserPatch{
		Email:       &u.Email,
		Name:        &u.Name,
		Surname:     &u.Surname,
		Avatar:      &u.Avatar,
		PhoneNumber: &u.PhoneNumber,
		Biography:   &u.Biography,
		LinkedinURL: &u.LinkedinURL,
		WebsiteURL:  &u.WebsiteURL,
	}
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	Name        string `json:"name" validate:"required"`
	Surname     string `json:"surname,omitempty"`
	Role        Role   `json:"role" validate:"required,oneof=STUDENT TEACHER"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Token        string `json:"token"`
	User         User   `json:"user"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int    `json:"expiresIn,omitempty"` // seconds
}

// ChangePasswordRequest is the payload for POST /auth/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// ResetPasswordRequest is the payload for POST /auth/reset-password.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// CreateUserRequest is the admin payload for POST /admin/users.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
	Surname  string `json:"surname,omitempty"`
	Role     Role   `json:"role" validate:"required,oneof=STUDENT TEACHER ADMIN"`
}
