package catalog

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

var ErrNotFound = errors.New("catalog entry not found")

// Kind enumerates the shared lookup pools resolved by natural key.
type Kind string

const (
	KindLocation     Kind = "location"
	KindRank         Kind = "rank"
	KindSector       Kind = "sector"
	KindSkill        Kind = "skill"
	KindCertificate  Kind = "certificate"
	KindOrganisation Kind = "organisation"
)

type Location struct {
	ID         uint
	City       string
	Street     string
	PostalCode string
	Country    string
	CreatedAt  time.Time
}

type Rank struct {
	ID        uint
	ShortCode string
	CreatedAt time.Time
}

type IndustrySector struct {
	ID        uint
	Name      string
	CreatedAt time.Time
}

type Skill struct {
	ID        uint
	Title     string
	CreatedAt time.Time
}

type Certificate struct {
	ID        uint
	Title     string
	CreatedAt time.Time
}

type SkillLink struct {
	ID         uint
	EmployeeID uint
	SkillID    uint
	Level      string
	CreatedAt  time.Time
}

type CertificateLink struct {
	ID            uint
	EmployeeID    uint
	CertificateID uint
	ValidUntil    *time.Time
	Issuer        string
	CreatedAt     time.Time
}

// Resolver implements find-or-create over the lookup pools. Resolve never
// mutates an existing match; a uniqueness race during create is recovered by
// re-querying the now-existing row.
type Resolver interface {
	Resolve(ctx context.Context, kind Kind, key string) (uint, error)
	// ResolveProject is separate because a project row carries the owning
	// organisation alongside its title.
	ResolveProject(ctx context.Context, title string, organisationID *uint) (uint, error)
}

type SkillRepository interface {
	List(ctx context.Context) ([]*Skill, error)
	Delete(ctx context.Context, id uint) error
	CreateLink(ctx context.Context, link *SkillLink) (*SkillLink, error)
	DeleteLinksBySkill(ctx context.Context, skillID uint) (int64, error)
}

type CertificateRepository interface {
	List(ctx context.Context) ([]*Certificate, error)
	Delete(ctx context.Context, id uint) error
	CreateLink(ctx context.Context, link *CertificateLink) (*CertificateLink, error)
	DeleteLinksByCertificate(ctx context.Context, certificateID uint) (int64, error)
}
