package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/profilwerk/skillsheet/modules/staffing/domain/entities/catalog"
	"github.com/profilwerk/skillsheet/pkg/composables"
	"github.com/profilwerk/skillsheet/pkg/mapping"
)

const uniqueViolationCode = "23505"

// kindSpec drives the find-or-create resolver per lookup pool. Locations get
// placeholder values for the address columns that are required but unknown at
// import time.
type kindSpec struct {
	selectQuery string
	insertQuery string
}

var kindSpecs = map[catalog.Kind]kindSpec{
	catalog.KindLocation: {
		selectQuery: "SELECT id FROM locations WHERE city = $1",
		insertQuery: `INSERT INTO locations (city, street, postal_code, country, created_at)
			VALUES ($1, 'unknown', 'unknown', 'unknown', now())
			ON CONFLICT (city) DO NOTHING RETURNING id`,
	},
	catalog.KindRank: {
		selectQuery: "SELECT id FROM employee_ranks WHERE short_code = $1",
		insertQuery: `INSERT INTO employee_ranks (short_code, created_at) VALUES ($1, now())
			ON CONFLICT (short_code) DO NOTHING RETURNING id`,
	},
	catalog.KindSector: {
		selectQuery: "SELECT id FROM industry_sectors WHERE name = $1",
		insertQuery: `INSERT INTO industry_sectors (name, created_at) VALUES ($1, now())
			ON CONFLICT (name) DO NOTHING RETURNING id`,
	},
	catalog.KindSkill: {
		selectQuery: "SELECT id FROM skills WHERE title = $1",
		insertQuery: `INSERT INTO skills (title, created_at) VALUES ($1, now())
			ON CONFLICT (title) DO NOTHING RETURNING id`,
	},
	catalog.KindCertificate: {
		selectQuery: "SELECT id FROM certificates WHERE title = $1",
		insertQuery: `INSERT INTO certificates (title, created_at) VALUES ($1, now())
			ON CONFLICT (title) DO NOTHING RETURNING id`,
	},
	catalog.KindOrganisation: {
		selectQuery: "SELECT id FROM organisations WHERE name = $1",
		insertQuery: `INSERT INTO organisations (name, created_at) VALUES ($1, now())
			ON CONFLICT (name) DO NOTHING RETURNING id`,
	},
}

type PgCatalogRepository struct{}

func NewCatalogRepository() *PgCatalogRepository {
	return &PgCatalogRepository{}
}

var _ catalog.Resolver = (*PgCatalogRepository)(nil)
var _ catalog.SkillRepository = (*PgCatalogRepository)(nil)
var _ catalog.CertificateRepository = (*PgCertificatePool)(nil)

// Resolve looks up the pool row by exact natural key and creates it when
// absent. The insert uses ON CONFLICT DO NOTHING so a concurrent create
// degrades into a re-select instead of an error.
func (r *PgCatalogRepository) Resolve(ctx context.Context, kind catalog.Kind, key string) (uint, error) {
	spec, ok := kindSpecs[kind]
	if !ok {
		return 0, fmt.Errorf("unknown catalog kind %q", kind)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return 0, gerrors.Wrap(catalog.ErrNotFound, "empty natural key")
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	var id int32
	err = tx.QueryRow(ctx, spec.selectQuery, key).Scan(&id)
	if err == nil {
		return uint(id), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, gerrors.Wrapf(err, "failed to resolve %s %q", kind, key)
	}

	err = tx.QueryRow(ctx, spec.insertQuery, key).Scan(&id)
	if err == nil {
		return uint(id), nil
	}
	if isRecoverableCreateRace(err) {
		if err := tx.QueryRow(ctx, spec.selectQuery, key).Scan(&id); err != nil {
			return 0, gerrors.Wrapf(err, "failed to re-resolve %s %q after create race", kind, key)
		}
		return uint(id), nil
	}
	return 0, gerrors.Wrapf(err, "failed to create %s %q", kind, key)
}

func (r *PgCatalogRepository) ResolveProject(ctx context.Context, title string, organisationID *uint) (uint, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return 0, gerrors.Wrap(catalog.ErrNotFound, "empty project title")
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	const selectQuery = "SELECT id FROM projects WHERE title = $1"
	var id int32
	err = tx.QueryRow(ctx, selectQuery, title).Scan(&id)
	if err == nil {
		return uint(id), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, gerrors.Wrapf(err, "failed to resolve project %q", title)
	}

	const insertQuery = `INSERT INTO projects (title, organisation_id, created_at) VALUES ($1, $2, now())
		ON CONFLICT (title) DO NOTHING RETURNING id`
	err = tx.QueryRow(ctx, insertQuery, title, uintPtrToNullInt32(organisationID)).Scan(&id)
	if err == nil {
		return uint(id), nil
	}
	if isRecoverableCreateRace(err) {
		if err := tx.QueryRow(ctx, selectQuery, title).Scan(&id); err != nil {
			return 0, gerrors.Wrapf(err, "failed to re-resolve project %q after create race", title)
		}
		return uint(id), nil
	}
	return 0, gerrors.Wrapf(err, "failed to create project %q", title)
}

// isRecoverableCreateRace matches both outcomes of a lost create race: the
// ON CONFLICT clause swallowing the row (no rows returned) and a plain unique
// violation on stores without the conflict target.
func isRecoverableCreateRace(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func (r *PgCatalogRepository) List(ctx context.Context) ([]*catalog.Skill, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, "SELECT id, title, created_at FROM skills ORDER BY id")
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to list skills")
	}
	defer rows.Close()

	var out []*catalog.Skill
	for rows.Next() {
		var s catalog.Skill
		var id int32
		if err := rows.Scan(&id, &s.Title, &s.CreatedAt); err != nil {
			return nil, gerrors.Wrap(err, "failed to scan skill row")
		}
		s.ID = uint(id)
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *PgCatalogRepository) Delete(ctx context.Context, id uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, "DELETE FROM skills WHERE id = $1", int32(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (r *PgCatalogRepository) CreateLink(ctx context.Context, link *catalog.SkillLink) (*catalog.SkillLink, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO employee_skills (employee_id, skill_id, level, created_at)
		VALUES ($1, $2, $3, now())
		RETURNING id, created_at
	`
	out := *link
	if err := tx.QueryRow(
		ctx,
		query,
		int32(link.EmployeeID),
		int32(link.SkillID),
		mapping.ValueToSQLNullString(link.Level),
	).Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, gerrors.Wrap(err, "failed to create skill link")
	}
	return &out, nil
}

func (r *PgCatalogRepository) DeleteLinksBySkill(ctx context.Context, skillID uint) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, "DELETE FROM employee_skills WHERE skill_id = $1", int32(skillID))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// PgCertificatePool narrows PgCatalogRepository to the certificate pool; the
// List/Delete method set clashes with the skill pool on the same receiver.
type PgCertificatePool struct{}

func NewCertificateRepository() catalog.CertificateRepository {
	return &PgCertificatePool{}
}

func (r *PgCertificatePool) List(ctx context.Context) ([]*catalog.Certificate, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, "SELECT id, title, created_at FROM certificates ORDER BY id")
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to list certificates")
	}
	defer rows.Close()

	var out []*catalog.Certificate
	for rows.Next() {
		var c catalog.Certificate
		var id int32
		if err := rows.Scan(&id, &c.Title, &c.CreatedAt); err != nil {
			return nil, gerrors.Wrap(err, "failed to scan certificate row")
		}
		c.ID = uint(id)
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *PgCertificatePool) Delete(ctx context.Context, id uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, "DELETE FROM certificates WHERE id = $1", int32(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (r *PgCertificatePool) CreateLink(ctx context.Context, link *catalog.CertificateLink) (*catalog.CertificateLink, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO employee_certificates (employee_id, certificate_id, valid_until, issuer, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING id, created_at
	`
	out := *link
	if err := tx.QueryRow(
		ctx,
		query,
		int32(link.EmployeeID),
		int32(link.CertificateID),
		timePtrToNull(link.ValidUntil),
		mapping.ValueToSQLNullString(link.Issuer),
	).Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, gerrors.Wrap(err, "failed to create certificate link")
	}
	return &out, nil
}

func (r *PgCertificatePool) DeleteLinksByCertificate(ctx context.Context, certificateID uint) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, "DELETE FROM employee_certificates WHERE certificate_id = $1", int32(certificateID))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
