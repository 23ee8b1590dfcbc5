// Package domain holds the authenticated user profile kept per session.
package domain

import (
	"strings"

	"github.com/telconova/portal/internal/shared/jsonval"
)

// User is the profile stored under the telconova_user key.
type User struct {
	ID    jsonval.Value `json:"id"`
	Name  string        `json:"name"`
	Email string        `json:"email"`
	Role  string        `json:"role,omitempty"`
}

// DisplayName falls back to the email when the backend sent no name.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	return u.Email
}
