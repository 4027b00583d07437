package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devstudio-hq/orders-backend/internal/orders/domain"
)

type OrderRepo struct {
	db *pgxpool.Pool
}

func NewOrderRepo(db *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{db: db}
}

const orderColumns = `id::text, created_at, user_name, user_email, company_name, plan_name, price, project_description, additional_notes, status`

// Create inserts a new order row. ID and CreatedAt are assigned by the
// database and written back onto o.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	const q = `
insert into orders (user_name, user_email, company_name, plan_name, price, project_description, additional_notes, status)
values ($1, $2, $3, $4, $5, $6, $7, $8)
returning id::text, created_at;
`
	return r.db.QueryRow(ctx, q,
		o.UserName, o.UserEmail, o.CompanyName, o.PlanName,
		o.Price, o.ProjectDescription, o.AdditionalNotes, string(o.Status),
	).Scan(&o.ID, &o.CreatedAt)
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `select ` + orderColumns + ` from orders where id = $1::uuid;`

	// a malformed id can never match a row; skip the doomed uuid cast
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrOrderNotFound
	}

	o, err := scanOrder(r.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// ListByEmail returns all orders belonging to the given customer email,
// newest first.
func (r *OrderRepo) ListByEmail(ctx context.Context, email string) ([]domain.Order, error) {
	const q = `select ` + orderColumns + ` from orders where user_email = $1 order by created_at desc;`
	return r.list(ctx, q, email)
}

// ListAll returns every order, newest first. Admin dashboard use only.
func (r *OrderRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	const q = `select ` + orderColumns + ` from orders order by created_at desc;`
	return r.list(ctx, q)
}

// UpdateStatus overwrites the status field. Last write wins; transition
// legality is checked by the service layer, not here.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status domain.Status) (bool, error) {
	const q = `update orders set status = $2 where id = $1::uuid;`

	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}

	ct, err := r.db.Exec(ctx, q, id, string(status))
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *OrderRepo) list(ctx context.Context, q string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Order, 0, 16)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	var status string
	err := row.Scan(
		&o.ID, &o.CreatedAt, &o.UserName, &o.UserEmail, &o.CompanyName,
		&o.PlanName, &o.Price, &o.ProjectDescription, &o.AdditionalNotes, &status,
	)
	if err != nil {
		return nil, err
	}
	o.Status = domain.Status(status)
	return &o, nil
}
