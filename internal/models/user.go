package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model  `json:"-"`
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name"`
	Username    string `json:"username" gorm:"uniqueIndex"`
	Email       string `json:"email" gorm:"uniqueIndex"`
	Password    string `json:"-"` // Store hashed password, ignore for JSON serialization
	Gender      string `json:"gender" gorm:"type:varchar(10)"`
	Mobile      string `json:"mobile"`
	IsPublic    bool   `json:"is_public" gorm:"default:true"`
	// Link to Firebase User UID. A pointer so password-only accounts store
	// NULL, which the unique index ignores, instead of colliding on "".
	FirebaseUID *string `json:"firebase_uid,omitempty" gorm:"uniqueIndex"`
}

// UserCompact is the trimmed user representation embedded in aggregate responses
type UserCompact struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Name: u.Name, Username: u.Username}
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Password string `json:"password" validate:"required,min=8"`
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"user_name" validate:"required,min=3,max=30"`
	Gender   string `json:"gender" validate:"required,oneof=male female other"`
	Mobile   string `json:"mobile" validate:"required,e164"`
	IsPublic *bool  `json:"isPublic" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name     string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Gender   string `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Mobile   string `json:"mobile,omitempty" validate:"omitempty,e164"`
	IsPublic *bool  `json:"is_public,omitempty"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
