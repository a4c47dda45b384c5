package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User mirrors an identity-provider account. The admin flag is deliberately
// not stored here; it lives on the request actor only.
type User struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	ClerkID       string    `json:"clerk_id,omitempty" gorm:"uniqueIndex;not null"`
	Email         string    `json:"email,omitempty" gorm:"uniqueIndex;not null"`
	Username      string    `json:"username,omitempty" gorm:"not null;default:''"`
	FirstName     string    `json:"first_name" gorm:"not null;default:''"`
	LastName      string    `json:"last_name" gorm:"not null;default:''"`
	Photo         string    `json:"photo,omitempty" gorm:"not null;default:''"`
	SchemaVersion int       `json:"-" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	newID(&u.ID)
	return nil
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	stampVersion(&u.SchemaVersion)
	return nil
}

func (u *User) AfterFind(tx *gorm.DB) error {
	if u.SchemaVersion == 0 {
		u.Username = strings.TrimSpace(u.Username)
		u.FirstName = strings.TrimSpace(u.FirstName)
		u.LastName = strings.TrimSpace(u.LastName)
	}
	return nil
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// OwnerID implements policy.Resource: a user record is owned by itself.
func (u *User) OwnerID() string {
	return u.ID
}

// IdentityUser is the subset of identity-provider profile data used to
// create or refresh a local user.
type IdentityUser struct {
	ClerkID   string
	Email     string
	Username  string
	FirstName string
	LastName  string
	Photo     string
}

type UpdateUserRequest struct {
	Username  *string `json:"username" validate:"omitempty,max=64"`
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Photo     *string `json:"photo" validate:"omitempty,url"`
}
