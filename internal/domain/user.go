package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

func ParseUserRole(raw string) (UserRole, error) {
	r := UserRole(strings.ToUpper(strings.TrimSpace(raw)))
	if r != RoleUser && r != RoleAdmin {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return r, nil
}

type User struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string    `gorm:"column:name;not null" json:"name"`
	Email string    `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Role  UserRole  `gorm:"column:role;type:varchar(16);not null;default:'USER'" json:"role"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }
