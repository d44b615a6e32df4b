package persistence

import (
	"context"

	gerrors "github.com/go-faster/errors"

	"github.com/profilwerk/skillsheet/modules/staffing/domain/entities/project"
	"github.com/profilwerk/skillsheet/modules/staffing/infrastructure/persistence/models"
	"github.com/profilwerk/skillsheet/pkg/composables"
	"github.com/profilwerk/skillsheet/pkg/mapping"
)

const (
	activityFindQuery = `
		SELECT id, employee_id, kind, project_id, background_id, title, client, role, description,
		       start_date, end_date, created_at
		FROM project_activities`
)

type PgActivityRepository struct{}

func NewActivityRepository() project.ActivityRepository {
	return &PgActivityRepository{}
}

func (r *PgActivityRepository) ListByEmployee(ctx context.Context, employeeID uint) ([]*project.Activity, error) {
	return r.queryActivities(ctx, activityFindQuery+" WHERE employee_id = $1 ORDER BY id", int32(employeeID))
}

func (r *PgActivityRepository) Create(ctx context.Context, data *project.Activity) (*project.Activity, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	var role interface{}
	if data.Role != nil {
		role = *data.Role
	}

	query := `
		INSERT INTO project_activities (employee_id, kind, project_id, background_id, title, client, role,
		                                description, start_date, end_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		RETURNING id, created_at
	`
	out := *data
	if err := tx.QueryRow(
		ctx,
		query,
		int32(data.EmployeeID),
		string(data.Kind),
		uintPtrToNullInt32(data.ProjectID),
		uintPtrToNullInt32(data.BackgroundID),
		mapping.ValueToSQLNullString(data.Title),
		mapping.ValueToSQLNullString(data.Client),
		role,
		mapping.ValueToSQLNullString(data.Description),
		timePtrToNull(data.Start),
		timePtrToNull(data.End),
	).Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, gerrors.Wrap(err, "failed to create project activity")
	}
	return &out, nil
}

func (r *PgActivityRepository) Delete(ctx context.Context, id uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, "DELETE FROM project_activities WHERE id = $1", int32(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return project.ErrActivityNotFound
	}
	return nil
}

func (r *PgActivityRepository) DeleteByBackground(ctx context.Context, backgroundID uint) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(
		ctx,
		"DELETE FROM project_activities WHERE background_id = $1 AND kind = $2",
		int32(backgroundID),
		string(project.ActivityExternal),
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PgActivityRepository) queryActivities(ctx context.Context, query string, args ...interface{}) ([]*project.Activity, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var out []*project.Activity
	for rows.Next() {
		var m models.ProjectActivity
		if err := rows.Scan(
			&m.ID,
			&m.EmployeeID,
			&m.Kind,
			&m.ProjectID,
			&m.BackgroundID,
			&m.Title,
			&m.Client,
			&m.Role,
			&m.Description,
			&m.Start,
			&m.End,
			&m.CreatedAt,
		); err != nil {
			return nil, gerrors.Wrap(err, "failed to scan activity row")
		}
		out = append(out, toDomainActivity(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, gerrors.Wrap(err, "row iteration error")
	}
	return out, nil
}
