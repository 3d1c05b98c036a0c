package repository

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	"github.com/iliyamo/marketplace-api/internal/model"
)

// ProductFilter carries the predicate shared by the count and page queries.
type ProductFilter struct {
	CategoryID *uint64  // equality on products.category_id
	PriceMin   *float64 // inclusive lower bound on price
	PriceMax   *float64 // inclusive upper bound on price
	Type       string   // exact match on type when non-empty
}

// ProductPage describes one page of a filtered listing. SortColumn must be
// one of the columns the handler's allow-list maps to; it is interpolated
// into SQL, so callers must never pass client input directly.
type ProductPage struct {
	Filter          ProductFilter
	SortColumn      string // "name" | "price" | "created_at"
	SortDesc        bool
	Offset          int
	Limit           int
	IncludeCategory bool
}

// ProductWithCategory is a listing row; Category is populated only when the
// page requested the join.
type ProductWithCategory struct {
	model.Product
	Category *model.Category
}

type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

// whereClause renders the filter as SQL. Both the count and the page query
// are built from this one predicate.
func (f ProductFilter) whereClause() (string, []any) {
	where := []string{}
	args := []any{}
	if f.CategoryID != nil {
		where = append(where, "p.category_id = ?")
		args = append(args, *f.CategoryID)
	}
	if f.PriceMin != nil {
		where = append(where, "p.price >= ?")
		args = append(args, *f.PriceMin)
	}
	if f.PriceMax != nil {
		where = append(where, "p.price <= ?")
		args = append(args, *f.PriceMax)
	}
	if f.Type != "" {
		where = append(where, "p.type = ?")
		args = append(args, f.Type)
	}
	if len(where) == 0 {
		return "1=1", args
	}
	return strings.Join(where, " AND "), args
}

// Count returns the number of products matching the filter.
func (r *ProductRepo) Count(ctx context.Context, f ProductFilter) (int64, error) {
	cond, args := f.whereClause()
	var total int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM products p WHERE "+cond, args...).Scan(&total)
	return total, err
}

// List returns one page of products matching the filter, joined with their
// category when requested.
func (r *ProductRepo) List(ctx context.Context, q ProductPage) ([]ProductWithCategory, error) {
	cond, args := q.Filter.whereClause()

	cols := "p.id, p.name, p.type, p.price, p.stock, p.category_id, p.created_at"
	join := ""
	if q.IncludeCategory {
		cols += ", c.id, c.name, c.description"
		join = " JOIN categories c ON c.id = p.category_id"
	}
	dir := "ASC"
	if q.SortDesc {
		dir = "DESC"
	}
	query := "SELECT " + cols + " FROM products p" + join +
		" WHERE " + cond +
		" ORDER BY p." + q.SortColumn + " " + dir + ", p.id " + dir +
		" LIMIT ? OFFSET ?"
	args = append(args, q.Limit, q.Offset)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]ProductWithCategory, 0, q.Limit)
	for rows.Next() {
		var row ProductWithCategory
		if q.IncludeCategory {
			var cat model.Category
			if err := rows.Scan(&row.ID, &row.Name, &row.Type, &row.Price, &row.Stock,
				&row.CategoryID, &row.CreatedAt, &cat.ID, &cat.Name, &cat.Description); err != nil {
				return nil, err
			}
			row.Category = &cat
		} else {
			if err := rows.Scan(&row.ID, &row.Name, &row.Type, &row.Price, &row.Stock,
				&row.CategoryID, &row.CreatedAt); err != nil {
				return nil, err
			}
		}
		items = append(items, row)
	}
	return items, rows.Err()
}

// ListAndCount runs the page query and the count query concurrently over
// the same predicate and joins the results.
func (r *ProductRepo) ListAndCount(ctx context.Context, q ProductPage) ([]ProductWithCategory, int64, error) {
	var (
		wg       sync.WaitGroup
		total    int64
		countErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		total, countErr = r.Count(ctx, q.Filter)
	}()

	items, listErr := r.List(ctx, q)
	wg.Wait()

	if listErr != nil {
		return nil, 0, listErr
	}
	if countErr != nil {
		return nil, 0, countErr
	}
	return items, total, nil
}

// Create inserts a product and fills in its generated ID and creation time.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO products (name, type, price, stock, category_id) VALUES (?,?,?,?,?)",
		p.Name, p.Type, p.Price, p.Stock, p.CategoryID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return r.DB.QueryRowContext(ctx,
		"SELECT created_at FROM products WHERE id=?", p.ID).Scan(&p.CreatedAt)
}
