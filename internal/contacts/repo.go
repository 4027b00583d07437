// Package contacts stores write-only contact messages from the site's
// contact form.
package contacts

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

type Message struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate returns per-field error messages for a submission.
func (m Message) Validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(m.Name) == "" {
		errs["name"] = "name is required"
	}
	if strings.TrimSpace(m.Email) == "" {
		errs["email"] = "email is required"
	}
	if strings.TrimSpace(m.Subject) == "" {
		errs["subject"] = "subject is required"
	}
	if strings.TrimSpace(m.Message) == "" {
		errs["message"] = "message is required"
	}
	return errs
}

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Insert(ctx context.Context, m *Message) error {
	const q = `
INSERT INTO contacts (name, email, subject, message)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at;
`
	err := r.db.QueryRowContext(ctx, q, m.Name, m.Email, m.Subject, m.Message).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// DeleteOlderThan prunes messages created before the cutoff. Used by the
// nightly worker.
func (r *Repo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `DELETE FROM contacts WHERE created_at < $1;`

	res, err := r.db.ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune contacts: %w", err)
	}
	return res.RowsAffected()
}
