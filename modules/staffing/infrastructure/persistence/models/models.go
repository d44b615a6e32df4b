package models

import (
	"database/sql"
	"time"
)

type Employee struct {
	ID                     int32
	EmployeeUUID           string
	Pseudonym              string
	FirstName              sql.NullString
	LastName               sql.NullString
	RankID                 sql.NullInt32
	LocationID             sql.NullInt32
	CounselorID            sql.NullInt32
	ContractStart          sql.NullTime
	ExperienceIT           int32
	ExperienceInfoSec      int32
	ExperienceITBaseline   int32
	ExperiencePublicSector int32
	Description            sql.NullString
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

type ProfessionalBackground struct {
	ID          int32
	EmployeeID  int32
	Employer    sql.NullString
	Position    sql.NullString
	Executive   bool
	SectorID    sql.NullInt32
	Description sql.NullString
	Start       sql.NullTime
	End         sql.NullTime
	CreatedAt   time.Time
}

type AcademicDegree struct {
	ID               int32
	EmployeeID       int32
	DegreeTitleShort sql.NullString
	DegreeTitleLong  sql.NullString
	Study            sql.NullString
	University       sql.NullString
	Start            sql.NullTime
	End              sql.NullTime
	Completed        bool
	MINT             bool
	CreatedAt        time.Time
}

type VocationalRecord struct {
	ID         int32
	EmployeeID int32
	Company    sql.NullString
	Title      sql.NullString
	SectorID   sql.NullInt32
	Start      sql.NullTime
	End        sql.NullTime
	ITRelevant bool
	CreatedAt  time.Time
}

type ProjectActivity struct {
	ID           int32
	EmployeeID   int32
	Kind         string
	ProjectID    sql.NullInt32
	BackgroundID sql.NullInt32
	Title        sql.NullString
	Client       sql.NullString
	Role         sql.NullString
	Description  sql.NullString
	Start        sql.NullTime
	End          sql.NullTime
	CreatedAt    time.Time
}
