package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/doctor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/doctor-scheduler/internal/pagination"
)

// Query é um filtro coluna → valor (igualdade).
type Query map[string]any

// Store[T] é o CRUD genérico usado pelos handlers de cadastro.
// Registro inexistente devolve (nil, nil); falhas viram StoreError.
type Store[T any] struct {
	db     *gorm.DB
	entity string
	sort   map[string]string
}

func New[T any](db *gorm.DB, entity string, sortable map[string]string) *Store[T] {
	return &Store[T]{db: db, entity: entity, sort: sortable}
}

func (s *Store[T]) op(name string) string {
	return s.entity + "." + name
}

func (s *Store[T]) where(ctx context.Context, q Query) *gorm.DB {
	tx := s.db.WithContext(ctx).Model(new(T))
	if len(q) > 0 {
		tx = tx.Where(map[string]any(q))
	}
	return tx
}

func (s *Store[T]) Create(ctx context.Context, rec *T) error {
	return httperr.ErrStore(s.op("create"), s.db.WithContext(ctx).Create(rec).Error)
}

func (s *Store[T]) CreateMany(ctx context.Context, recs []T) error {
	if len(recs) == 0 {
		return nil
	}
	return httperr.ErrStore(s.op("create_many"), s.db.WithContext(ctx).CreateInBatches(recs, 100).Error)
}

func (s *Store[T]) FindOne(ctx context.Context, q Query, preload ...string) (*T, error) {
	tx := s.where(ctx, q)
	for _, p := range preload {
		tx = tx.Preload(p)
	}

	var rec T
	if err := tx.First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, httperr.ErrStore(s.op("find_one"), err)
	}
	return &rec, nil
}

// UpdateOne aplica values ao primeiro registro que casa com q e devolve o
// registro recarregado.
func (s *Store[T]) UpdateOne(ctx context.Context, q Query, values map[string]any) (*T, error) {
	rec, err := s.FindOne(ctx, q)
	if err != nil || rec == nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(rec).Updates(values).Error; err != nil {
		return nil, httperr.ErrStore(s.op("update_one"), err)
	}

	if err := s.db.WithContext(ctx).First(rec).Error; err != nil {
		return nil, httperr.ErrStore(s.op("update_one"), err)
	}
	return rec, nil
}

// SoftDelete marca is_deleted/is_active; false quando nada casou.
func (s *Store[T]) SoftDelete(ctx context.Context, q Query, values map[string]any) (bool, error) {
	res := s.where(ctx, q).Updates(values)
	if res.Error != nil {
		return false, httperr.ErrStore(s.op("soft_delete"), res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Store[T]) DeleteOne(ctx context.Context, q Query) (bool, error) {
	if len(q) == 0 {
		return false, httperr.ErrValidation("empty_filter", "refusing to delete without a filter")
	}

	res := s.db.WithContext(ctx).Where(map[string]any(q)).Delete(new(T))
	if res.Error != nil {
		return false, httperr.ErrStore(s.op("delete_one"), res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Store[T]) Count(ctx context.Context, q Query) (int64, error) {
	var n int64
	if err := s.where(ctx, q).Count(&n).Error; err != nil {
		return 0, httperr.ErrStore(s.op("count"), err)
	}
	return n, nil
}

func (s *Store[T]) Paginate(ctx context.Context, q Query, opts pagination.Options) (pagination.Page[T], error) {
	opts = opts.Normalize()

	total, err := s.Count(ctx, q)
	if err != nil {
		return pagination.Page[T]{}, err
	}

	tx := s.where(ctx, q).
		Order(opts.OrderBy(s.sort, "created_at DESC")).
		Limit(opts.Limit).
		Offset(opts.Offset())
	for _, p := range opts.Preload {
		tx = tx.Preload(p)
	}

	var recs []T
	if err := tx.Find(&recs).Error; err != nil {
		return pagination.Page[T]{}, httperr.ErrStore(s.op("paginate"), err)
	}

	return pagination.NewPage(recs, total, opts), nil
}

// Distinct devolve os valores distintos e não vazios de column.
func (s *Store[T]) Distinct(ctx context.Context, column string, q Query) ([]string, error) {
	var out []string
	err := s.where(ctx, q).
		Where(column+" <> ''").
		Distinct(column).
		Order(column).
		Pluck(column, &out).Error
	if err != nil {
		return nil, httperr.ErrStore(s.op("distinct"), err)
	}
	return out, nil
}
