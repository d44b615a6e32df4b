package persistence

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/profilwerk/skillsheet/modules/staffing/domain/aggregates/employee"
	"github.com/profilwerk/skillsheet/modules/staffing/domain/entities/career"
	"github.com/profilwerk/skillsheet/modules/staffing/domain/entities/project"
	"github.com/profilwerk/skillsheet/modules/staffing/infrastructure/persistence/models"
	"github.com/profilwerk/skillsheet/pkg/mapping"
)

func nullInt32ToUintPtr(v sql.NullInt32) *uint {
	if !v.Valid {
		return nil
	}
	out := uint(v.Int32)
	return &out
}

func uintPtrToNullInt32(v *uint) sql.NullInt32 {
	if v == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*v), Valid: true}
}

func timePtrToNull(v *time.Time) sql.NullTime {
	return mapping.PointerToSQLNullTime(v)
}

func toDomainEmployee(m *models.Employee) *employee.Employee {
	id, err := uuid.Parse(m.EmployeeUUID)
	if err != nil {
		id = uuid.Nil
	}
	return &employee.Employee{
		ID:                     uint(m.ID),
		EmployeeUUID:           id,
		Pseudonym:              m.Pseudonym,
		FirstName:              m.FirstName.String,
		LastName:               m.LastName.String,
		RankID:                 nullInt32ToUintPtr(m.RankID),
		LocationID:             nullInt32ToUintPtr(m.LocationID),
		CounselorID:            nullInt32ToUintPtr(m.CounselorID),
		ContractStart:          mapping.SQLNullTimeToPointer(m.ContractStart),
		ExperienceIT:           int(m.ExperienceIT),
		ExperienceInfoSec:      int(m.ExperienceInfoSec),
		ExperienceITBaseline:   int(m.ExperienceITBaseline),
		ExperiencePublicSector: int(m.ExperiencePublicSector),
		Description:            m.Description.String,
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
	}
}

func toDomainBackground(m *models.ProfessionalBackground) *career.ProfessionalBackground {
	return &career.ProfessionalBackground{
		ID:          uint(m.ID),
		EmployeeID:  uint(m.EmployeeID),
		Employer:    m.Employer.String,
		Position:    m.Position.String,
		Executive:   m.Executive,
		SectorID:    nullInt32ToUintPtr(m.SectorID),
		Description: m.Description.String,
		Start:       mapping.SQLNullTimeToPointer(m.Start),
		End:         mapping.SQLNullTimeToPointer(m.End),
		CreatedAt:   m.CreatedAt,
	}
}

func toDomainDegree(m *models.AcademicDegree) *career.AcademicDegree {
	return &career.AcademicDegree{
		ID:               uint(m.ID),
		EmployeeID:       uint(m.EmployeeID),
		DegreeTitleShort: m.DegreeTitleShort.String,
		DegreeTitleLong:  m.DegreeTitleLong.String,
		Study:            m.Study.String,
		University:       m.University.String,
		Start:            mapping.SQLNullTimeToPointer(m.Start),
		End:              mapping.SQLNullTimeToPointer(m.End),
		Completed:        m.Completed,
		MINT:             m.MINT,
		CreatedAt:        m.CreatedAt,
	}
}

func toDomainVocational(m *models.VocationalRecord) *career.VocationalRecord {
	return &career.VocationalRecord{
		ID:         uint(m.ID),
		EmployeeID: uint(m.EmployeeID),
		Company:    m.Company.String,
		Title:      m.Title.String,
		SectorID:   nullInt32ToUintPtr(m.SectorID),
		Start:      mapping.SQLNullTimeToPointer(m.Start),
		End:        mapping.SQLNullTimeToPointer(m.End),
		ITRelevant: m.ITRelevant,
		CreatedAt:  m.CreatedAt,
	}
}

func toDomainActivity(m *models.ProjectActivity) *project.Activity {
	var role *string
	if m.Role.Valid {
		role = mapping.Pointer(m.Role.String)
	}
	return &project.Activity{
		ID:           uint(m.ID),
		EmployeeID:   uint(m.EmployeeID),
		Kind:         project.ActivityKind(m.Kind),
		ProjectID:    nullInt32ToUintPtr(m.ProjectID),
		BackgroundID: nullInt32ToUintPtr(m.BackgroundID),
		Title:        m.Title.String,
		Client:       m.Client.String,
		Role:         role,
		Description:  m.Description.String,
		Start:        mapping.SQLNullTimeToPointer(m.Start),
		End:          mapping.SQLNullTimeToPointer(m.End),
		CreatedAt:    m.CreatedAt,
	}
}
