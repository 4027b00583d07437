package domain

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// transitions lists the allowed forward moves. Anything not listed
// (including moving back to an earlier status) is rejected.
var transitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusCompleted},
	StatusInProgress: {StatusCompleted},
	StatusCompleted:  {},
}

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusInProgress, StatusCompleted:
		return Status(s), true
	}
	return "", false
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Order struct {
	ID                 string    `json:"id"`
	CreatedAt          time.Time `json:"created_at"`
	UserName           string    `json:"user_name"`
	UserEmail          string    `json:"user_email"`
	CompanyName        *string   `json:"company_name,omitempty"`
	PlanName           string    `json:"plan_name"`
	Price              float64   `json:"price"`
	ProjectDescription string    `json:"project_description"`
	AdditionalNotes    *string   `json:"additional_notes,omitempty"`
	Status             Status    `json:"status"`
}

type Attachment struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	FileName  string    `json:"file_name"`
	FileURL   string    `json:"file_url"`
	FileType  string    `json:"file_type"`
	FileSize  int64     `json:"file_size"`
	CreatedAt time.Time `json:"created_at"`
}

type Plan struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Catalog is the fixed set of packages customers can order. Prices are
// captured onto the order row at submission time; changing the catalog
// later never touches historical orders.
var Catalog = []Plan{
	{Name: "Basic", Price: 37.42},
	{Name: "Standard", Price: 74.84},
	{Name: "Premium", Price: 149.68},
}

// PlanByName looks up a catalog entry by name, case-insensitive.
func PlanByName(name string) (Plan, bool) {
	for _, p := range Catalog {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Plan{}, false
}
