package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devstudio-hq/orders-backend/internal/auth"
	"github.com/devstudio-hq/orders-backend/internal/orders/domain"
	"github.com/devstudio-hq/orders-backend/internal/orders/service"
)

type stubService struct {
	checkoutOrder    *domain.Order
	checkoutWarnings []string
	checkoutErr      error
	orders           []domain.Order
	attachments      []domain.Attachment
	attachmentsErr   error
	updated          *domain.Order
	updateErr        error

	gotInput domain.CheckoutInput
	gotFiles int
	gotEmail string
}

func (s *stubService) Checkout(_ context.Context, verifiedEmail string, in domain.CheckoutInput, files []service.FileUpload) (*domain.Order, []string, error) {
	s.gotEmail = verifiedEmail
	s.gotInput = in
	s.gotFiles = len(files)
	return s.checkoutOrder, s.checkoutWarnings, s.checkoutErr
}

func (s *stubService) ListMine(_ context.Context, verifiedEmail string) ([]domain.Order, error) {
	s.gotEmail = verifiedEmail
	return s.orders, nil
}

func (s *stubService) Attachments(_ context.Context, verifiedEmail, _ string) ([]domain.Attachment, error) {
	s.gotEmail = verifiedEmail
	return s.attachments, s.attachmentsErr
}

func (s *stubService) ListAll(_ context.Context) ([]domain.Order, error) {
	return s.orders, nil
}

func (s *stubService) UpdateStatus(_ context.Context, _, _ string) (*domain.Order, error) {
	return s.updated, s.updateErr
}

func newRouter(svc Service, verifiedEmail string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	grp := r.Group("/orders")
	grp.Use(func(c *gin.Context) {
		if verifiedEmail != "" {
			auth.SetVerifiedEmail(c, verifiedEmail)
		}
	})
	Register(grp, svc)

	admin := r.Group("/admin/orders")
	RegisterAdmin(admin, svc)
	return r
}

func multipartCheckout(t *testing.T, fields map[string]string, fileNames ...string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, name := range fileNames {
		fw, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("file-body"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCheckoutHandler_Created(t *testing.T) {
	svc := &stubService{
		checkoutOrder: &domain.Order{ID: "order-1", Status: domain.StatusPending, PlanName: "Standard"},
	}
	r := newRouter(svc, "jane@example.com")

	buf, contentType := multipartCheckout(t, map[string]string{
		"user_name":           "Jane Doe",
		"plan_name":           "Standard",
		"project_description": strings.Repeat("x", 60),
	}, "brief.pdf")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", buf)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["ok"])
	assert.NotContains(t, body, "upload_warnings")

	assert.Equal(t, "jane@example.com", svc.gotEmail)
	assert.Equal(t, "Jane Doe", svc.gotInput.UserName)
	assert.Equal(t, 1, svc.gotFiles)
}

func TestCheckoutHandler_CreatedWithUploadWarnings(t *testing.T) {
	svc := &stubService{
		checkoutOrder:    &domain.Order{ID: "order-1", Status: domain.StatusPending},
		checkoutWarnings: []string{`failed to upload "brief.pdf"`},
	}
	r := newRouter(svc, "jane@example.com")

	buf, contentType := multipartCheckout(t, map[string]string{"plan_name": "Basic"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", buf)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	require.Contains(t, body, "upload_warnings")
	assert.Len(t, body["upload_warnings"], 1)
}

func TestCheckoutHandler_ValidationFailure(t *testing.T) {
	svc := &stubService{
		checkoutErr: &service.ValidationError{Fields: map[string]string{"user_email": "a valid email is required"}},
	}
	r := newRouter(svc, "jane@example.com")

	buf, contentType := multipartCheckout(t, nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", buf)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["ok"])

	fields, ok := body["fields"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "user_email")
}

func TestCheckoutHandler_UnverifiedEmail(t *testing.T) {
	svc := &stubService{checkoutErr: domain.ErrNotVerified}
	r := newRouter(svc, "")

	buf, contentType := multipartCheckout(t, nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", buf)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAttachmentsHandler_NotFound(t *testing.T) {
	svc := &stubService{attachmentsErr: domain.ErrOrderNotFound}
	r := newRouter(svc, "jane@example.com")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders/order-9/attachments", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListMineHandler(t *testing.T) {
	svc := &stubService{orders: []domain.Order{{ID: "order-1"}, {ID: "order-2"}}}
	r := newRouter(svc, "jane@example.com")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Len(t, body["orders"], 2)
	assert.Equal(t, "jane@example.com", svc.gotEmail)
}

func TestUpdateStatusHandler(t *testing.T) {
	t.Run("legal transition", func(t *testing.T) {
		svc := &stubService{updated: &domain.Order{ID: "order-1", Status: domain.StatusCompleted}}
		r := newRouter(svc, "")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/admin/orders/order-1/status",
			strings.NewReader(`{"status":"completed"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, decodeBody(t, w)["ok"])
	})

	t.Run("illegal transition maps to 422", func(t *testing.T) {
		svc := &stubService{updateErr: domain.ErrIllegalTransition}
		r := newRouter(svc, "")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/admin/orders/order-1/status",
			strings.NewReader(`{"status":"pending"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("missing status body is a 400", func(t *testing.T) {
		svc := &stubService{}
		r := newRouter(svc, "")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/admin/orders/order-1/status",
			strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestWriteError_Unmapped(t *testing.T) {
	svc := &stubService{updateErr: errors.New("pq: password authentication failed for user orders")}
	r := newRouter(svc, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/admin/orders/order-1/status",
		strings.NewReader(`{"status":"completed"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	// the backend failure text must never reach the client
	body := decodeBody(t, w)
	assert.Equal(t, "internal server error", body["error"])
	assert.NotContains(t, w.Body.String(), "password")
}
