// Package models holds the server's persistence types.
package models

import (
	"time"

	"github.com/dmitrijs2005/feedbackportal/internal/api"
)

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         api.Role
	ManagerID    *string
	CreatedAt    time.Time
}

func (u *User) IsManager() bool  { return u.Role == api.RoleManager }
func (u *User) IsEmployee() bool { return u.Role == api.RoleEmployee }

// ManagedBy reports whether managerID is u's manager.
func (u *User) ManagedBy(managerID string) bool {
	return u.ManagerID != nil && *u.ManagerID == managerID
}
