package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/visearch/visearch/domain/repository"
)

// applyOptions translates a full repository.Query onto a GORM session:
// conditions, eager-loaded associations, ordering, and pagination.
func applyOptions(db *gorm.DB, options ...repository.Option) *gorm.DB {
	q := repository.Build(options...)

	db = applyWhere(db, q)

	for _, p := range q.Preloads() {
		orders := p.Orders()
		db = db.Preload(p.Association(), func(assoc *gorm.DB) *gorm.DB {
			for _, ord := range orders {
				assoc = assoc.Order(orderClause(ord))
			}
			return assoc
		})
	}

	for _, ord := range q.Orders() {
		db = db.Order(orderClause(ord))
	}

	if q.LimitValue() > 0 {
		db = db.Limit(q.LimitValue())
	}
	if q.OffsetValue() > 0 {
		db = db.Offset(q.OffsetValue())
	}

	return db
}

// applyConditions translates only the WHERE conditions, for COUNT and
// DELETE statements where ordering and pagination have no meaning.
func applyConditions(db *gorm.DB, options ...repository.Option) *gorm.DB {
	return applyWhere(db, repository.Build(options...))
}

func applyWhere(db *gorm.DB, q repository.Query) *gorm.DB {
	for _, cond := range q.Conditions() {
		if cond.In() {
			db = db.Where(fmt.Sprintf("%s IN ?", cond.Field()), cond.Value())
		} else {
			db = db.Where(fmt.Sprintf("%s = ?", cond.Field()), cond.Value())
		}
	}
	return db
}

func orderClause(ord repository.Order) string {
	dir := "ASC"
	if !ord.Ascending() {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s", ord.Field(), dir)
}
