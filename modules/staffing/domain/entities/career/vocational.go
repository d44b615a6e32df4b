package career

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

var ErrVocationalNotFound = errors.New("vocational record not found")

// VocationalRecord is one vocational training station (Berufsausbildung).
type VocationalRecord struct {
	ID         uint
	EmployeeID uint
	Company    string
	Title      string
	SectorID   *uint
	Start      *time.Time
	End        *time.Time
	ITRelevant bool
	CreatedAt  time.Time
}

type VocationalRepository interface {
	ListByEmployee(ctx context.Context, employeeID uint) ([]*VocationalRecord, error)
	Create(ctx context.Context, data *VocationalRecord) (*VocationalRecord, error)
	Delete(ctx context.Context, id uint) error
}
