package career

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

var ErrBackgroundNotFound = errors.New("professional background not found")

// ProfessionalBackground is one employment station of an employee. A nil End
// means the position is ongoing ("heute" in the source sheets).
type ProfessionalBackground struct {
	ID          uint
	EmployeeID  uint
	Employer    string
	Position    string
	Executive   bool
	SectorID    *uint
	Description string
	Start       *time.Time
	End         *time.Time
	CreatedAt   time.Time
}

type BackgroundRepository interface {
	ListByEmployee(ctx context.Context, employeeID uint) ([]*ProfessionalBackground, error)
	// MostRecentByEmployee returns the background with the latest start date,
	// or ErrBackgroundNotFound when the employee has none.
	MostRecentByEmployee(ctx context.Context, employeeID uint) (*ProfessionalBackground, error)
	Create(ctx context.Context, data *ProfessionalBackground) (*ProfessionalBackground, error)
	Delete(ctx context.Context, id uint) error
}
