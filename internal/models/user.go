package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is the identity record posts, comments and follows point at.
type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Username    string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Name        string    `json:"name"`
	Email       string    `json:"email" gorm:"uniqueIndex"`
	Password    string    `json:"-"`                                        // bcrypt hash, empty for Firebase-only accounts
	FirebaseUID *string   `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // nil for local accounts
	IsAdmin     bool      `json:"is_admin" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
}

// Identity is the authenticated actor resolved by the identity middleware.
// A nil *Identity means an anonymous request.
type Identity struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// Identity returns the actor view of the user.
func (u *User) Identity() *Identity {
	return &Identity{UserID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}
}

// UserCompact is the author block embedded in listings.
type UserCompact struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Username: u.Username, Name: u.Name}
}

// compact is ToCompact for an optional relation.
func (u *User) compact() *UserCompact {
	if u == nil {
		return nil
	}
	c := u.ToCompact()
	return &c
}

type CreateLocalUserRequest struct {
	Username string `json:"username" validate:"required,min=2,max=150,alphanum"`
	Name     string `json:"name" validate:"omitempty,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}
