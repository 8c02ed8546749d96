package model

import (
	"time"

	"github.com/muhammadheryan/crm/constant"
)

// UserEntity represents the user table entity
type UserEntity struct {
	ID             uint64        `db:"id" json:"id"`
	Name           string        `db:"name" json:"name"`
	Email          string        `db:"email" json:"email"`
	PasswordHash   string        `db:"password_hash" json:"-"`
	Role           constant.Role `db:"role" json:"role"`
	Phone          string        `db:"phone" json:"phone"`
	Location       string        `db:"location" json:"location"`
	MemberSince    *time.Time    `db:"member_since" json:"memberSince,omitempty"`
	ProfilePicture string        `db:"profile_picture" json:"profilePicture"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      *time.Time    `db:"updated_at" json:"updated_at,omitempty"`
}

// Identity is who is calling, as proven by a verified token.
type Identity struct {
	UserID uint64
	Role   constant.Role
}

// UserFilter for querying users
type UserFilter struct {
	ID    uint64
	Email string
}

// ProfileUpdate holds the columns a profile update touches; nil means unchanged.
type ProfileUpdate struct {
	Name           *string
	Phone          *string
	Location       *string
	SetMemberSince bool
	MemberSince    *time.Time
	ProfilePicture *string
}

// SignupRequest for user registration
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=employee admin"`
}

// LoginRequest for user login
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest is a partial profile update; absent fields stay as they are.
// An empty memberSince clears it.
type UpdateProfileRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Phone       *string `json:"phone" validate:"omitempty,max=32"`
	Location    *string `json:"location" validate:"omitempty,max=100"`
	MemberSince *string `json:"memberSince"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID             uint64        `json:"id"`
	Name           string        `json:"name"`
	Email          string        `json:"email"`
	Role           constant.Role `json:"role"`
	Phone          string        `json:"phone"`
	Location       string        `json:"location"`
	MemberSince    time.Time     `json:"memberSince"`
	ProfilePicture string        `json:"profilePicture"`
}

type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

type ProfilePictureResponse struct {
	Message        string `json:"message"`
	ProfilePicture string `json:"profilePicture"`
}

// NewUserResponse builds the public view; memberSince falls back to the signup time.
func NewUserResponse(u *UserEntity) UserResponse {
	since := u.CreatedAt
	if u.MemberSince != nil {
		since = *u.MemberSince
	}
	return UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		Phone:          u.Phone,
		Location:       u.Location,
		MemberSince:    since,
		ProfilePicture: u.ProfilePicture,
	}
}
