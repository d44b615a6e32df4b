package project

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

var ErrActivityNotFound = errors.New("project activity not found")

type Organisation struct {
	ID        uint
	Name      string
	CreatedAt time.Time
}

type Project struct {
	ID             uint
	Title          string
	OrganisationID *uint
	CreatedAt      time.Time
}

type ActivityKind string

const (
	ActivityInternal ActivityKind = "internal"
	ActivityExternal ActivityKind = "external"
)

// Activity is one project engagement of an employee. Internal activities
// reference a shared Project; external ones carry their own title and client
// text and copy the role from the employee's most recent professional
// background (BackgroundID records where the role came from).
type Activity struct {
	ID           uint
	EmployeeID   uint
	Kind         ActivityKind
	ProjectID    *uint
	BackgroundID *uint
	Title        string
	Client       string
	Role         *string
	Description  string
	Start        *time.Time
	End          *time.Time
	CreatedAt    time.Time
}

type ActivityRepository interface {
	ListByEmployee(ctx context.Context, employeeID uint) ([]*Activity, error)
	Create(ctx context.Context, data *Activity) (*Activity, error)
	Delete(ctx context.Context, id uint) error
	// DeleteByBackground removes external activities that copied their role
	// from the given professional background, so a background delete never
	// leaves dangling references.
	DeleteByBackground(ctx context.Context, backgroundID uint) (int64, error)
}
