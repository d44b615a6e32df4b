package persistence

import (
	"context"
	"errors"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/profilwerk/skillsheet/modules/staffing/domain/aggregates/employee"
	"github.com/profilwerk/skillsheet/modules/staffing/infrastructure/persistence/models"
	"github.com/profilwerk/skillsheet/pkg/composables"
	"github.com/profilwerk/skillsheet/pkg/mapping"
)

const (
	employeeFindQuery = `
		SELECT id, employee_uuid, pseudonym, first_name, last_name, rank_id, location_id, counselor_id,
		       contract_start, experience_it, experience_infosec, experience_it_baseline, experience_public_sector,
		       description, created_at, updated_at
		FROM employees`
)

type PgEmployeeRepository struct{}

func NewEmployeeRepository() employee.Repository {
	return &PgEmployeeRepository{}
}

func (r *PgEmployeeRepository) GetByID(ctx context.Context, id uint) (*employee.Employee, error) {
	employees, err := r.queryEmployees(ctx, employeeFindQuery+" WHERE id = $1", int32(id))
	if err != nil {
		return nil, err
	}
	if len(employees) == 0 {
		return nil, employee.ErrNotFound
	}
	return employees[0], nil
}

func (r *PgEmployeeRepository) GetByPseudonym(ctx context.Context, pseudonym string) (*employee.Employee, error) {
	employees, err := r.queryEmployees(ctx, employeeFindQuery+" WHERE pseudonym = $1", employee.NormalizePseudonym(pseudonym))
	if err != nil {
		return nil, err
	}
	if len(employees) == 0 {
		return nil, employee.ErrNotFound
	}
	return employees[0], nil
}

func (r *PgEmployeeRepository) GetAll(ctx context.Context) ([]*employee.Employee, error) {
	return r.queryEmployees(ctx, employeeFindQuery+" ORDER BY id")
}

func (r *PgEmployeeRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM employees").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PgEmployeeRepository) Create(ctx context.Context, data *employee.Employee) (*employee.Employee, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO employees (
			employee_uuid, pseudonym, first_name, last_name, rank_id, location_id,
			contract_start, experience_it, experience_infosec, experience_it_baseline, experience_public_sector,
			description, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now(), now())
		RETURNING id
	`
	var id int32
	if err := tx.QueryRow(
		ctx,
		query,
		data.EmployeeUUID.String(),
		data.Pseudonym,
		mapping.ValueToSQLNullString(data.FirstName),
		mapping.ValueToSQLNullString(data.LastName),
		uintPtrToNullInt32(data.RankID),
		uintPtrToNullInt32(data.LocationID),
		timePtrToNull(data.ContractStart),
		int32(data.ExperienceIT),
		int32(data.ExperienceInfoSec),
		int32(data.ExperienceITBaseline),
		int32(data.ExperiencePublicSector),
		mapping.ValueToSQLNullString(data.Description),
	).Scan(&id); err != nil {
		return nil, gerrors.Wrap(err, "failed to create employee")
	}

	return r.GetByID(ctx, uint(id))
}

func (r *PgEmployeeRepository) Update(ctx context.Context, data *employee.Employee) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	query := `
		UPDATE employees
		SET first_name = $1, last_name = $2, rank_id = $3, location_id = $4,
		    contract_start = $5, experience_it = $6, experience_infosec = $7,
		    experience_it_baseline = $8, experience_public_sector = $9,
		    description = $10, updated_at = now()
		WHERE id = $11
	`
	_, err = tx.Exec(
		ctx,
		query,
		mapping.ValueToSQLNullString(data.FirstName),
		mapping.ValueToSQLNullString(data.LastName),
		uintPtrToNullInt32(data.RankID),
		uintPtrToNullInt32(data.LocationID),
		timePtrToNull(data.ContractStart),
		int32(data.ExperienceIT),
		int32(data.ExperienceInfoSec),
		int32(data.ExperienceITBaseline),
		int32(data.ExperiencePublicSector),
		mapping.ValueToSQLNullString(data.Description),
		int32(data.ID),
	)
	return err
}

func (r *PgEmployeeRepository) SetCounselor(ctx context.Context, id uint, counselorID uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		ctx,
		"UPDATE employees SET counselor_id = $1, updated_at = now() WHERE id = $2",
		int32(counselorID),
		int32(id),
	)
	return err
}

func (r *PgEmployeeRepository) queryEmployees(ctx context.Context, query string, args ...interface{}) ([]*employee.Employee, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, gerrors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var out []*employee.Employee
	for rows.Next() {
		var m models.Employee
		if err := rows.Scan(
			&m.ID,
			&m.EmployeeUUID,
			&m.Pseudonym,
			&m.FirstName,
			&m.LastName,
			&m.RankID,
			&m.LocationID,
			&m.CounselorID,
			&m.ContractStart,
			&m.ExperienceIT,
			&m.ExperienceInfoSec,
			&m.ExperienceITBaseline,
			&m.ExperiencePublicSector,
			&m.Description,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, gerrors.Wrap(err, "failed to scan employee row")
		}
		out = append(out, toDomainEmployee(&m))
	}

	if err := rows.Err(); err != nil {
		return nil, gerrors.Wrap(err, "row iteration error")
	}

	return out, nil
}
