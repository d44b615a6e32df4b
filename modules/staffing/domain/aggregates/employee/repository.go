package employee

import (
	"context"

	"github.com/go-faster/errors"
)

var ErrNotFound = errors.New("employee not found")

type Repository interface {
	GetByID(ctx context.Context, id uint) (*Employee, error)
	GetByPseudonym(ctx context.Context, pseudonym string) (*Employee, error)
	GetAll(ctx context.Context) ([]*Employee, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, data *Employee) (*Employee, error)
	Update(ctx context.Context, data *Employee) error
	// SetCounselor wires the deferred self-reference after all files are read.
	SetCounselor(ctx context.Context, id uint, counselorID uint) error
}
