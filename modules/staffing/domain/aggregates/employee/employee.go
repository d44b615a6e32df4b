package employee

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Employee is the identity anchor of one imported workbook. The pseudonym is
// the natural key across files and re-runs; the UUID is assigned once on
// first creation and stable afterwards.
type Employee struct {
	ID           uint
	EmployeeUUID uuid.UUID
	Pseudonym    string
	FirstName    string
	LastName     string
	RankID       *uint
	LocationID   *uint
	CounselorID  *uint

	ContractStart *time.Time

	ExperienceIT           int
	ExperienceInfoSec      int
	ExperienceITBaseline   int
	ExperiencePublicSector int

	Description string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func New(pseudonym string) *Employee {
	return &Employee{
		EmployeeUUID: uuid.New(),
		Pseudonym:    NormalizePseudonym(pseudonym),
	}
}

func NormalizePseudonym(v string) string {
	return strings.TrimSpace(v)
}
