// Package executive manages accounts of the platform's own staff.
package executive

import (
	"log/slog"
	"time"

	"github.com/nixbug/entebus-server/internal/enum"
)

type Executive struct {
	ID          int
	Username    string
	Password    string
	Gender      enum.GenderType
	FullName    *string
	Designation *string
	Status      enum.AccountStatus
	CreatedOn   time.Time
}

type CreateParams struct {
	Username    string  `json:"username" validate:"required,min=4,max=32,username"`
	Password    string  `json:"password" validate:"required,min=8,max=32,password"`
	FullName    *string `json:"full_name,omitempty"`
	Designation *string `json:"designation,omitempty"`
}

func (p CreateParams) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("username", p.Username),
		slog.String("password", "*"),
	)
}
