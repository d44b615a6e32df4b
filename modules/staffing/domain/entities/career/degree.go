package career

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

var ErrDegreeNotFound = errors.New("academic degree not found")

// AcademicDegree is one study station. MINT is derived from a keyword match
// on the field of study during import.
type AcademicDegree struct {
	ID               uint
	EmployeeID       uint
	DegreeTitleShort string
	DegreeTitleLong  string
	Study            string
	University       string
	Start            *time.Time
	End              *time.Time
	Completed        bool
	MINT             bool
	CreatedAt        time.Time
}

type DegreeRepository interface {
	ListByEmployee(ctx context.Context, employeeID uint) ([]*AcademicDegree, error)
	Create(ctx context.Context, data *AcademicDegree) (*AcademicDegree, error)
	Delete(ctx context.Context, id uint) error
}
