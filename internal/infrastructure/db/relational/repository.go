package relational

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/hbnb/rental-api/internal/core/domain"
	"github.com/hbnb/rental-api/internal/core/ports"
)

// Repository is a ports.Repository over one table.
type Repository[E domain.Entity] struct {
	store *Store
	t     table[E]
}

var _ ports.PlaceRepository = (*Repository[*domain.Place])(nil)

func NewRepository[E domain.Entity](store *Store, t table[E]) *Repository[E] {
	return &Repository[E]{store: store, t: t}
}

// Add inserts entity, or overwrites every column when the id already exists.
func (r *Repository[E]) Add(ctx context.Context, entity E) error {
	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		return r.upsert(ctx, tx, entity)
	})
}

func (r *Repository[E]) Get(ctx context.Context, id string) (E, error) {
	var out E
	err := r.store.withTx(ctx, func(tx *sql.Tx) error {
		e, err := r.getOne(ctx, tx, id, false)
		if err != nil {
			return err
		}
		out = e
		return nil
	})
	return out, err
}

func (r *Repository[E]) GetAll(ctx context.Context) ([]E, error) {
	return r.selectWhere(ctx, nil)
}

// Update locks the row, applies patch and writes the result back in one transaction.
func (r *Repository[E]) Update(ctx context.Context, id string, patch domain.Patch[E]) (E, error) {
	var out E
	err := r.store.withTx(ctx, func(tx *sql.Tx) error {
		e, err := r.getOne(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if err := patch.Apply(e); err != nil {
			return err
		}

		rec := r.t.record(e)
		delete(rec, "id")
		delete(rec, "created_at")
		upd := r.store.dialect.Update(r.t.name).Prepared(true).Set(rec).Where(goqu.Ex{"id": id})
		if _, err := r.store.exec(ctx, tx, upd); err != nil {
			return storeErr(fmt.Errorf("%s: update: %w", r.t.name, err), r.t.unique)
		}
		if r.t.afterWrite != nil {
			if err := r.t.afterWrite(ctx, r.store, tx, e); err != nil {
				return err
			}
		}
		out = e
		return nil
	})
	if err != nil {
		var zero E
		return zero, err
	}
	return out, nil
}

// Replace overwrites the row stored under id with entity.
func (r *Repository[E]) Replace(ctx context.Context, id string, entity E) error {
	if err := domain.EnsureIdentity(id, entity); err != nil {
		return err
	}
	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		return r.upsert(ctx, tx, entity)
	})
}

func (r *Repository[E]) Delete(ctx context.Context, id string) (bool, error) {
	var removed bool
	err := r.store.withTx(ctx, func(tx *sql.Tx) error {
		del := r.store.dialect.Delete(r.t.name).Prepared(true).Where(goqu.Ex{"id": id})
		res, err := r.store.exec(ctx, tx, del)
		if err != nil {
			return fmt.Errorf("%s: delete: %w", r.t.name, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("%s: delete: %w", r.t.name, err)
		}
		removed = n > 0
		return nil
	})
	return removed, err
}

func (r *Repository[E]) GetByAttribute(ctx context.Context, name string, value any) ([]E, error) {
	if !r.t.kind.HasAttribute(name) {
		return nil, domain.ErrUnknownAttribute
	}
	return r.selectWhere(ctx, goqu.Ex{name: value})
}

func (r *Repository[E]) upsert(ctx context.Context, tx *sql.Tx, entity E) error {
	rec := r.t.record(entity)
	set := goqu.Record{}
	for k, v := range rec {
		if k != "id" {
			set[k] = v
		}
	}
	ins := r.store.dialect.Insert(r.t.name).Prepared(true).
		Rows(rec).
		OnConflict(goqu.DoUpdate("id", set))
	if _, err := r.store.exec(ctx, tx, ins); err != nil {
		return storeErr(fmt.Errorf("%s: insert: %w", r.t.name, err), r.t.unique)
	}
	if r.t.afterWrite != nil {
		return r.t.afterWrite(ctx, r.store, tx, entity)
	}
	return nil
}

func (r *Repository[E]) getOne(ctx context.Context, tx *sql.Tx, id string, forUpdate bool) (E, error) {
	var zero E
	ds := r.store.dialect.From(r.t.name).Prepared(true).
		Select(r.t.selectColumns()...).
		Where(goqu.Ex{"id": id})
	if forUpdate {
		ds = ds.ForUpdate(exp.Wait)
	}
	query, args, err := ds.ToSQL()
	if err != nil {
		return zero, fmt.Errorf("build query: %w", err)
	}

	e, err := r.t.scan(tx.QueryRowContext(ctx, query, args...))
	if err != nil {
		return zero, notFoundOr(err, r.t.kind, id)
	}
	if r.t.load != nil {
		if err := r.t.load(ctx, r.store, tx, []E{e}); err != nil {
			return zero, err
		}
	}
	return e, nil
}

func (r *Repository[E]) selectWhere(ctx context.Context, where goqu.Ex) ([]E, error) {
	out := []E{}
	err := r.store.withTx(ctx, func(tx *sql.Tx) error {
		ds := r.store.dialect.From(r.t.name).Prepared(true).Select(r.t.selectColumns()...)
		if where != nil {
			ds = ds.Where(where)
		}
		rows, err := r.store.query(ctx, tx, ds)
		if err != nil {
			return fmt.Errorf("%s: select: %w", r.t.name, err)
		}
		err = eachRow(rows, func(row scanner) error {
			e, err := r.t.scan(row)
			if err != nil {
				return err
			}
			out = append(out, e)
			return nil
		})
		if err != nil {
			return fmt.Errorf("%s: scan: %w", r.t.name, err)
		}
		if r.t.load != nil {
			return r.t.load(ctx, r.store, tx, out)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
