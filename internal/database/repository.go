package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/visearch/visearch/domain/repository"
)

// ErrNotFound indicates the requested entity was not found.
var ErrNotFound = errors.New("entity not found")

// EntityMapper converts between a domain type and its row model.
type EntityMapper[D any, E any] interface {
	ToDomain(entity E) D
	ToModel(domain D) E
}

// Repository provides generic persistence operations over one row model,
// driven by repository.Option queries.
type Repository[D any, E any] struct {
	db     Database
	tx     *gorm.DB
	mapper EntityMapper[D, E]
	label  string
}

// NewRepository creates a Repository. The label names the entity in error
// messages ("query", "result").
func NewRepository[D any, E any](db Database, mapper EntityMapper[D, E], label string) Repository[D, E] {
	return Repository[D, E]{
		db:     db,
		mapper: mapper,
		label:  label,
	}
}

// WithTx returns a copy of the repository whose operations run on the given
// transaction instead of a fresh session.
func (r Repository[D, E]) WithTx(tx *gorm.DB) Repository[D, E] {
	r.tx = tx
	return r
}

func (r Repository[D, E]) session(ctx context.Context) *gorm.DB {
	if r.tx != nil {
		return r.tx
	}
	return r.db.Session(ctx)
}

// Find retrieves entities matching the given options.
func (r Repository[D, E]) Find(ctx context.Context, options ...repository.Option) ([]D, error) {
	var entities []E
	db := applyOptions(r.session(ctx).Model(new(E)), options...)
	if result := db.Find(&entities); result.Error != nil {
		return nil, fmt.Errorf("find %s: %w", r.label, result.Error)
	}

	domains := make([]D, len(entities))
	for i, entity := range entities {
		domains[i] = r.mapper.ToDomain(entity)
	}
	return domains, nil
}

// FindOne retrieves a single entity matching the given options. A missing
// row reports ErrNotFound.
func (r Repository[D, E]) FindOne(ctx context.Context, options ...repository.Option) (D, error) {
	var entity E
	db := applyOptions(r.session(ctx), options...)
	if result := db.First(&entity); result.Error != nil {
		var zero D
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return zero, fmt.Errorf("%w: %s", ErrNotFound, r.label)
		}
		return zero, fmt.Errorf("find one %s: %w", r.label, result.Error)
	}
	return r.mapper.ToDomain(entity), nil
}

// Count returns the number of entities matching the given options.
func (r Repository[D, E]) Count(ctx context.Context, options ...repository.Option) (int64, error) {
	var count int64
	db := applyConditions(r.session(ctx).Model(new(E)), options...)
	if result := db.Count(&count); result.Error != nil {
		return 0, fmt.Errorf("count %s: %w", r.label, result.Error)
	}
	return count, nil
}

// DeleteBy removes all entities matching the given options.
func (r Repository[D, E]) DeleteBy(ctx context.Context, options ...repository.Option) error {
	db := applyConditions(r.session(ctx), options...)
	if result := db.Delete(new(E)); result.Error != nil {
		return fmt.Errorf("delete %s: %w", r.label, result.Error)
	}
	return nil
}
