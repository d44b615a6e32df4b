package persistence

import (
	"context"

	gerrors "github.com/go-faster/errors"

	"github.com/profilwerk/skillsheet/modules/staffing/domain/entities/career"
	"github.com/profilwerk/skillsheet/modules/staffing/infrastructure/persistence/models"
	"github.com/profilwerk/skillsheet/pkg/composables"
	"github.com/profilwerk/skillsheet/pkg/mapping"
)

const (
	backgroundFindQuery = `
		SELECT id, employee_id, employer, position, executive, sector_id, description, start_date, end_date, created_at
		FROM professional_backgrounds`
	degreeFindQuery = `
		SELECT id, employee_id, degree_title_short, degree_title_long, study, university,
		       start_date, end_date, completed, mint, created_at
		FROM academic_degrees`
	vocationalFindQuery = `
		SELECT id, employee_id, company, title, sector_id, start_date, end_date, it_relevant, created_at
		FROM vocational_records`
)

type PgBackgroundRepository struct{}

func NewBackgroundRepository() career.BackgroundRepository {
	return &PgBackgroundRepository{}
}

func (r *PgBackgroundRepository) ListByEmployee(ctx context.Context, employeeID uint) ([]*career.ProfessionalBackground, error) {
	return r.queryBackgrounds(ctx, backgroundFindQuery+" WHERE employee_id = $1 ORDER BY id", int32(employeeID))
}

func (r *PgBackgroundRepository) MostRecentByEmployee(ctx context.Context, employeeID uint) (*career.ProfessionalBackground, error) {
	rows, err := r.queryBackgrounds(
		ctx,
		backgroundFindQuery+" WHERE employee_id = $1 ORDER BY start_date DESC NULLS LAST LIMIT 1",
		int32(employeeID),
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, career.ErrBackgroundNotFound
	}
	return rows[0], nil
}

func (r *PgBackgroundRepository) Create(ctx context.Context, data *career.ProfessionalBackground) (*career.ProfessionalBackground, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO professional_backgrounds (employee_id, employer, position, executive, sector_id, description, start_date, end_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		RETURNING id, created_at
	`
	out := *data
	if err := tx.QueryRow(
		ctx,
		query,
		int32(data.EmployeeID),
		mapping.ValueToSQLNullString(data.Employer),
		mapping.ValueToSQLNullString(data.Position),
		data.Executive,
		uintPtrToNullInt32(data.SectorID),
		mapping.ValueToSQLNullString(data.Description),
		timePtrToNull(data.Start),
		timePtrToNull(data.End),
	).Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, gerrors.Wrap(err, "failed to create professional background")
	}
	return &out, nil
}

func (r *PgBackgroundRepository) Delete(ctx context.Context, id uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, "DELETE FROM professional_backgrounds WHERE id = $1", int32(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return career.ErrBackgroundNotFound
	}
	return nil
}

func (r *PgBackgroundRepository) queryBackgrounds(ctx context.Context, query string, args ...interface{}) ([]*career.ProfessionalBackground, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var out []*career.ProfessionalBackground
	for rows.Next() {
		var m models.ProfessionalBackground
		if err := rows.Scan(
			&m.ID,
			&m.EmployeeID,
			&m.Employer,
			&m.Position,
			&m.Executive,
			&m.SectorID,
			&m.Description,
			&m.Start,
			&m.End,
			&m.CreatedAt,
		); err != nil {
			return nil, gerrors.Wrap(err, "failed to scan background row")
		}
		out = append(out, toDomainBackground(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, gerrors.Wrap(err, "row iteration error")
	}
	return out, nil
}

type PgDegreeRepository struct{}

func NewDegreeRepository() career.DegreeRepository {
	return &PgDegreeRepository{}
}

func (r *PgDegreeRepository) ListByEmployee(ctx context.Context, employeeID uint) ([]*career.AcademicDegree, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, degreeFindQuery+" WHERE employee_id = $1 ORDER BY id", int32(employeeID))
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var out []*career.AcademicDegree
	for rows.Next() {
		var m models.AcademicDegree
		if err := rows.Scan(
			&m.ID,
			&m.EmployeeID,
			&m.DegreeTitleShort,
			&m.DegreeTitleLong,
			&m.Study,
			&m.University,
			&m.Start,
			&m.End,
			&m.Completed,
			&m.MINT,
			&m.CreatedAt,
		); err != nil {
			return nil, gerrors.Wrap(err, "failed to scan degree row")
		}
		out = append(out, toDomainDegree(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, gerrors.Wrap(err, "row iteration error")
	}
	return out, nil
}

func (r *PgDegreeRepository) Create(ctx context.Context, data *career.AcademicDegree) (*career.AcademicDegree, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO academic_degrees (employee_id, degree_title_short, degree_title_long, study, university,
		                              start_date, end_date, completed, mint, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		RETURNING id, created_at
	`
	out := *data
	if err := tx.QueryRow(
		ctx,
		query,
		int32(data.EmployeeID),
		mapping.ValueToSQLNullString(data.DegreeTitleShort),
		mapping.ValueToSQLNullString(data.DegreeTitleLong),
		mapping.ValueToSQLNullString(data.Study),
		mapping.ValueToSQLNullString(data.University),
		timePtrToNull(data.Start),
		timePtrToNull(data.End),
		data.Completed,
		data.MINT,
	).Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, gerrors.Wrap(err, "failed to create academic degree")
	}
	return &out, nil
}

func (r *PgDegreeRepository) Delete(ctx context.Context, id uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, "DELETE FROM academic_degrees WHERE id = $1", int32(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return career.ErrDegreeNotFound
	}
	return nil
}

type PgVocationalRepository struct{}

func NewVocationalRepository() career.VocationalRepository {
	return &PgVocationalRepository{}
}

func (r *PgVocationalRepository) ListByEmployee(ctx context.Context, employeeID uint) ([]*career.VocationalRecord, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, vocationalFindQuery+" WHERE employee_id = $1 ORDER BY id", int32(employeeID))
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var out []*career.VocationalRecord
	for rows.Next() {
		var m models.VocationalRecord
		if err := rows.Scan(
			&m.ID,
			&m.EmployeeID,
			&m.Company,
			&m.Title,
			&m.SectorID,
			&m.Start,
			&m.End,
			&m.ITRelevant,
			&m.CreatedAt,
		); err != nil {
			return nil, gerrors.Wrap(err, "failed to scan vocational row")
		}
		out = append(out, toDomainVocational(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, gerrors.Wrap(err, "row iteration error")
	}
	return out, nil
}

func (r *PgVocationalRepository) Create(ctx context.Context, data *career.VocationalRecord) (*career.VocationalRecord, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO vocational_records (employee_id, company, title, sector_id, start_date, end_date, it_relevant, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		RETURNING id, created_at
	`
	out := *data
	if err := tx.QueryRow(
		ctx,
		query,
		int32(data.EmployeeID),
		mapping.ValueToSQLNullString(data.Company),
		mapping.ValueToSQLNullString(data.Title),
		uintPtrToNullInt32(data.SectorID),
		timePtrToNull(data.Start),
		timePtrToNull(data.End),
		data.ITRelevant,
	).Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, gerrors.Wrap(err, "failed to create vocational record")
	}
	return &out, nil
}

func (r *PgVocationalRepository) Delete(ctx context.Context, id uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, "DELETE FROM vocational_records WHERE id = $1", int32(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return career.ErrVocationalNotFound
	}
	return nil
}
