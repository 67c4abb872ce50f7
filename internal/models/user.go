package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is an account. Username is the public handle.
type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Username    string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email       string    `json:"email,omitempty" gorm:"size:254;index"`
	Password    string    `json:"-"`                           // bcrypt hash
	FirebaseUID *string   `json:"-" gorm:"size:128;uniqueIndex"` // set for users created by Firebase login
	Profile     *Profile  `json:"profile,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt   time.Time `json:"date_joined"`
	UpdatedAt   time.Time `json:"-"`
}

// Profile holds the optional public details of a user. Every user has exactly one.
type Profile struct {
	ID             uint      `json:"-" gorm:"primaryKey"`
	UserID         uint      `json:"-" gorm:"uniqueIndex;not null"`
	Bio            string    `json:"bio"`
	ProfilePicture string    `json:"profile_picture"`
	UpdatedAt      time.Time `json:"-"`
}

// UserCompact is the author/actor summary embedded in other responses.
type UserCompact struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Username: u.Username}
}

// RegisterRequest defines the request body for creating a local account
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the request body for signing in
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest defines the request body for updating the authenticated user
type UpdateProfileRequest struct {
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
	Bio            *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	ProfilePicture *string `json:"profile_picture,omitempty" validate:"omitempty,url"`
}

// FirebaseLoginRequest defines the request body for exchanging a Firebase ID token
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
