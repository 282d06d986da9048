package store

import (
	"context"

	"gorm.io/gorm"
)

// Filter is an equality match on column names.
type Filter map[string]interface{}

// QueryOption narrows or orders a query.
type QueryOption func(*gorm.DB) *gorm.DB

func OrderBy(order string) QueryOption {
	return func(db *gorm.DB) *gorm.DB { return db.Order(order) }
}

func Limit(n int) QueryOption {
	return func(db *gorm.DB) *gorm.DB { return db.Limit(n) }
}

func Offset(n int) QueryOption {
	return func(db *gorm.DB) *gorm.DB { return db.Offset(n) }
}

// Where adds a free-form condition, for ranges, IN lists and LIKE.
func Where(query string, args ...interface{}) QueryOption {
	return func(db *gorm.DB) *gorm.DB { return db.Where(query, args...) }
}

func Select(columns ...string) QueryOption {
	return func(db *gorm.DB) *gorm.DB { return db.Select(columns) }
}

func Preload(assoc string, args ...interface{}) QueryOption {
	return func(db *gorm.DB) *gorm.DB { return db.Preload(assoc, args...) }
}

// Repository is the per-entity CRUD surface over gorm. Every error it
// returns has been passed through Translate.
type Repository[T any] struct {
	db *gorm.DB
}

func NewRepository[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

func (r *Repository[T]) query(ctx context.Context, filter Filter, opts []QueryOption) *gorm.DB {
	q := r.db.WithContext(ctx).Model(new(T))
	if len(filter) > 0 {
		q = q.Where(map[string]interface{}(filter))
	}
	for _, opt := range opts {
		q = opt(q)
	}
	return q
}

func (r *Repository[T]) Find(ctx context.Context, filter Filter, opts ...QueryOption) ([]T, error) {
	var out []T
	if err := r.query(ctx, filter, opts).Find(&out).Error; err != nil {
		return nil, Translate(err)
	}
	return out, nil
}

// FindOne returns the first match or ErrNotFound.
func (r *Repository[T]) FindOne(ctx context.Context, filter Filter, opts ...QueryOption) (*T, error) {
	var out T
	if err := r.query(ctx, filter, opts).Take(&out).Error; err != nil {
		return nil, Translate(err)
	}
	return &out, nil
}

func (r *Repository[T]) Get(ctx context.Context, id uint, opts ...QueryOption) (*T, error) {
	return r.FindOne(ctx, Filter{"id": id}, opts...)
}

// Insert creates doc. A unique index violation yields ErrConflict.
func (r *Repository[T]) Insert(ctx context.Context, doc *T) error {
	return Translate(r.db.WithContext(ctx).Create(doc).Error)
}

// DeleteOne removes the row with the given id and reports whether a row
// was actually removed.
func (r *Repository[T]) DeleteOne(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return false, Translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DeleteWhere removes every row matching filter.
func (r *Repository[T]) DeleteWhere(ctx context.Context, filter Filter, opts ...QueryOption) (int64, error) {
	q := r.db.WithContext(ctx)
	if len(filter) > 0 {
		q = q.Where(map[string]interface{}(filter))
	}
	for _, opt := range opts {
		q = opt(q)
	}
	res := q.Delete(new(T))
	return res.RowsAffected, Translate(res.Error)
}

// Increment atomically adds delta to an integer column in a single UPDATE.
// A negative delta only applies while the column stays non-negative; the
// result reports whether a row was changed.
func (r *Repository[T]) Increment(ctx context.Context, id uint, field string, delta int) (bool, error) {
	q := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id)
	if delta < 0 {
		q = q.Where(field+" >= ?", -delta)
	}
	res := q.UpdateColumn(field, gorm.Expr(field+" + ?", delta))
	if res.Error != nil {
		return false, Translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository[T]) Count(ctx context.Context, filter Filter, opts ...QueryOption) (int64, error) {
	var n int64
	if err := r.query(ctx, filter, opts).Count(&n).Error; err != nil {
		return 0, Translate(err)
	}
	return n, nil
}

func (r *Repository[T]) Exists(ctx context.Context, filter Filter, opts ...QueryOption) (bool, error) {
	n, err := r.Count(ctx, filter, opts...)
	return n > 0, err
}

// UpdateFields applies fields to every row matching filter and returns the
// number of rows changed.
func (r *Repository[T]) UpdateFields(ctx context.Context, filter Filter, fields map[string]interface{}) (int64, error) {
	res := r.query(ctx, filter, nil).Updates(fields)
	return res.RowsAffected, Translate(res.Error)
}

// Pluck collects a single column from the matching rows.
func Pluck[T any, V any](ctx context.Context, r *Repository[T], column string, filter Filter, opts ...QueryOption) ([]V, error) {
	var out []V
	if err := r.query(ctx, filter, opts).Pluck(column, &out).Error; err != nil {
		return nil, Translate(err)
	}
	return out, nil
}
