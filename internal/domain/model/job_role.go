//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// JobRole is a job role record owned by the records API.
type JobRole struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	OwnerID     *uuid.UUID `json:"owner_id,omitempty"`
}

// JobRoleCreate is the payload sent to create a JobRole.
// Description is always sent, as an empty string when left blank.
type JobRoleCreate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate validates JobRoleCreate.
func (r JobRoleCreate) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required and cannot be empty")
	}
	return nil
}
