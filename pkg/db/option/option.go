package option

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// QueryOption mutates a gorm statement before it is executed.
type QueryOption interface {
	Apply(db *gorm.DB) *gorm.DB
}

type queryOptionFunc func(db *gorm.DB) *gorm.DB

func (f queryOptionFunc) Apply(db *gorm.DB) *gorm.DB { return f(db) }

type Operator string

const (
	EQ  Operator = "="
	NEQ Operator = "<>"
	GT  Operator = ">"
	GTE Operator = ">="
	LT  Operator = "<"
	LTE Operator = "<="
	IN  Operator = "IN"
)

type Condition struct {
	Field    string
	Operator Operator
	Value    any
}

// ApplyOperator adds a single WHERE predicate. Unknown operators are ignored.
func ApplyOperator(cond Condition) QueryOption {
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		field := strings.TrimSpace(cond.Field)
		if field == "" {
			return db
		}
		switch cond.Operator {
		case EQ, NEQ, GT, GTE, LT, LTE:
			return db.Where(fmt.Sprintf("%s %s ?", field, cond.Operator), cond.Value)
		case IN:
			return db.Where(fmt.Sprintf("%s IN ?", field), cond.Value)
		default:
			return db
		}
	})
}

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// QuerySortBy orders results by an allow-listed column with an optional tie-breaker.
type QuerySortBy struct {
	SortBy     string
	Order      SortOrder
	Allow      map[string]bool
	Default    string
	TieBreaker string
}

func WithQuerySortBy(sortBy string, order SortOrder, allow map[string]bool) QuerySortBy {
	return QuerySortBy{SortBy: sortBy, Order: order, Allow: allow}
}

func (s QuerySortBy) WithDefault(column string) QuerySortBy {
	s.Default = column
	return s
}

func (s QuerySortBy) WithTieBreaker(column string) QuerySortBy {
	s.TieBreaker = column
	return s
}

// WithSortBy falls back to Default (or created_at) when SortBy is not allowed.
func WithSortBy(s QuerySortBy) QueryOption {
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		column := strings.ToLower(strings.TrimSpace(s.SortBy))
		if !s.Allow[column] {
			column = s.Default
		}
		if column == "" {
			column = "created_at"
		}
		order := Desc
		if strings.EqualFold(string(s.Order), string(Asc)) {
			order = Asc
		}
		db = db.Order(fmt.Sprintf("%s %s", column, order))
		if tb := strings.TrimSpace(s.TieBreaker); tb != "" && tb != column {
			db = db.Order(fmt.Sprintf("%s %s", tb, order))
		}
		return db
	})
}

func WithLimit(limit int) QueryOption {
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		return db.Limit(limit)
	})
}

func WithOffset(offset int) QueryOption {
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		if offset <= 0 {
			return db
		}
		return db.Offset(offset)
	})
}
