package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/devstudio-hq/orders-backend/internal/orders/domain"
	"github.com/devstudio-hq/orders-backend/internal/orders/events"
)

type OrderStore interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) (bool, error)
}

type AttachmentStore interface {
	Insert(ctx context.Context, a *domain.Attachment) error
	ListByOrder(ctx context.Context, orderID string) ([]domain.Attachment, error)
}

type BlobStore interface {
	Upload(ctx context.Context, orderID, fileName, contentType string, body io.Reader) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, ev events.Event) error
}

// ValidationError carries per-field messages for a rejected submission.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field(s)", len(e.Fields))
}

// FileUpload is one attachment candidate. Open is called only after the
// file passes validation and the order row exists.
type FileUpload struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

type OrderService struct {
	orders      OrderStore
	attachments AttachmentStore
	blobs       BlobStore
	bus         EventPublisher
}

func NewOrderService(orders OrderStore, attachments AttachmentStore, blobs BlobStore, bus EventPublisher) *OrderService {
	return &OrderService{
		orders:      orders,
		attachments: attachments,
		blobs:       blobs,
		bus:         bus,
	}
}

// Checkout validates the submission and creates one pending order for the
// verified customer email. Attachments are uploaded best-effort after the
// order row exists: a failed upload is reported in the returned warnings
// but never rolls the order back.
func (s *OrderService) Checkout(ctx context.Context, verifiedEmail string, in domain.CheckoutInput, files []FileUpload) (*domain.Order, []string, error) {
	if strings.TrimSpace(verifiedEmail) == "" {
		return nil, nil, domain.ErrNotVerified
	}

	fieldErrs := in.Validate()
	for _, f := range files {
		if err := domain.ValidateFile(f.Name, f.ContentType, f.Size); err != nil {
			fieldErrs["files"] = err.Error()
			break
		}
	}
	if len(fieldErrs) > 0 {
		return nil, nil, &ValidationError{Fields: fieldErrs}
	}

	// Price is captured from the catalog entry selected now; later catalog
	// changes never retouch this order.
	plan, _ := domain.PlanByName(in.PlanName)

	order := &domain.Order{
		UserName:           strings.TrimSpace(in.UserName),
		UserEmail:          verifiedEmail,
		CompanyName:        optional(in.CompanyName),
		PlanName:           plan.Name,
		Price:              plan.Price,
		ProjectDescription: strings.TrimSpace(in.ProjectDescription),
		AdditionalNotes:    optional(in.AdditionalNotes),
		Status:             domain.StatusPending,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, nil, fmt.Errorf("create order: %w", err)
	}

	warnings := s.uploadAttachments(ctx, order.ID, files)

	s.publish(ctx, events.Event{Type: events.TypeCreated, OrderID: order.ID, Status: string(order.Status)})

	return order, warnings, nil
}

func (s *OrderService) uploadAttachments(ctx context.Context, orderID string, files []FileUpload) []string {
	var warnings []string
	for _, f := range files {
		if err := s.uploadOne(ctx, orderID, f); err != nil {
			log.Printf("[warn] operation=upload_attachment order_id=%s file=%s error=%v", orderID, f.Name, err)
			warnings = append(warnings, fmt.Sprintf("attachment %s was not saved: %v", f.Name, err))
		}
	}
	return warnings
}

func (s *OrderService) uploadOne(ctx context.Context, orderID string, f FileUpload) error {
	body, err := f.Open()
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer body.Close()

	url, err := s.blobs.Upload(ctx, orderID, f.Name, f.ContentType, body)
	if err != nil {
		return err
	}

	return s.attachments.Insert(ctx, &domain.Attachment{
		OrderID:  orderID,
		FileName: f.Name,
		FileURL:  url,
		FileType: f.ContentType,
		FileSize: f.Size,
	})
}

// ListMine returns the verified customer's orders, newest first. A customer
// with no orders gets an empty list, not an error.
func (s *OrderService) ListMine(ctx context.Context, verifiedEmail string) ([]domain.Order, error) {
	if strings.TrimSpace(verifiedEmail) == "" {
		return nil, domain.ErrNotVerified
	}
	return s.orders.ListByEmail(ctx, verifiedEmail)
}

// Attachments lists the attachments of an order owned by the caller.
// Orders belonging to someone else read as not found.
func (s *OrderService) Attachments(ctx context.Context, verifiedEmail, orderID string) ([]domain.Attachment, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(order.UserEmail, verifiedEmail) {
		return nil, domain.ErrOrderNotFound
	}
	return s.attachments.ListByOrder(ctx, orderID)
}

// ListAll returns every order for the admin view.
func (s *OrderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListAll(ctx)
}

// UpdateStatus moves an order along the forward-only transition table and
// notifies live dashboards.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, newStatus string) (*domain.Order, error) {
	status, ok := domain.ParseStatus(newStatus)
	if !ok {
		return nil, domain.ErrInvalidStatus
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(order.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrIllegalTransition, order.Status, status)
	}

	updated, err := s.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	if !updated {
		return nil, domain.ErrOrderNotFound
	}

	order.Status = status
	s.publish(ctx, events.Event{Type: events.TypeStatusChanged, OrderID: orderID, Status: string(status)})

	return order, nil
}

func (s *OrderService) publish(ctx context.Context, ev events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, ev); err != nil {
		log.Printf("[warn] operation=publish_event type=%s order_id=%s error=%v", ev.Type, ev.OrderID, err)
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
