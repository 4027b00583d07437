package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devstudio-hq/orders-backend/internal/orders/domain"
)

type AttachmentRepo struct {
	db *pgxpool.Pool
}

func NewAttachmentRepo(db *pgxpool.Pool) *AttachmentRepo {
	return &AttachmentRepo{db: db}
}

// Insert records an uploaded attachment. The owning order row must already
// exist; the order_id foreign key enforces it.
func (r *AttachmentRepo) Insert(ctx context.Context, a *domain.Attachment) error {
	const q = `
insert into order_attachments (order_id, file_name, file_url, file_type, file_size)
values ($1::uuid, $2, $3, $4, $5)
returning id::text, created_at;
`
	return r.db.QueryRow(ctx, q,
		a.OrderID, a.FileName, a.FileURL, a.FileType, a.FileSize,
	).Scan(&a.ID, &a.CreatedAt)
}

func (r *AttachmentRepo) ListByOrder(ctx context.Context, orderID string) ([]domain.Attachment, error) {
	const q = `
select id::text, order_id::text, file_name, file_url, file_type, file_size, created_at
from order_attachments
where order_id = $1::uuid
order by created_at;
`
	rows, err := r.db.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Attachment, 0, 4)
	for rows.Next() {
		var a domain.Attachment
		if err := rows.Scan(&a.ID, &a.OrderID, &a.FileName, &a.FileURL, &a.FileType, &a.FileSize, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
