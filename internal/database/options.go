package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/helixml/textstat/domain/count"
)

// ApplyOptions builds a count.Query from the given options and applies it
// to a GORM session.
func ApplyOptions(db *gorm.DB, options ...count.Option) *gorm.DB {
	q := count.Build(options...)

	db = applyFilters(db, q)

	for _, ord := range q.Orders() {
		dir := "ASC"
		if !ord.Ascending() {
			dir = "DESC"
		}
		db = db.Order(fmt.Sprintf("%s %s", ord.Field(), dir))
	}

	if q.LimitValue() > 0 {
		db = db.Limit(q.LimitValue())
	}

	if q.OffsetValue() > 0 {
		db = db.Offset(q.OffsetValue())
	}

	return db
}

// ApplyConditions applies only WHERE clauses (no limit/offset/order) for
// COUNT and DELETE statements.
func ApplyConditions(db *gorm.DB, options ...count.Option) *gorm.DB {
	return applyFilters(db, count.Build(options...))
}

func applyFilters(db *gorm.DB, q count.Query) *gorm.DB {
	for _, cond := range q.Conditions() {
		db = db.Where(fmt.Sprintf("%s = ?", cond.Field()), cond.Value())
	}
	for _, where := range q.Wheres() {
		db = db.Where(where.Clause(), where.Args()...)
	}
	return db
}
