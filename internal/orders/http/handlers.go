package http

import (
	"context"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devstudio-hq/orders-backend/internal/auth"
	"github.com/devstudio-hq/orders-backend/internal/orders/domain"
	"github.com/devstudio-hq/orders-backend/internal/orders/service"
)

type Service interface {
	Checkout(ctx context.Context, verifiedEmail string, in domain.CheckoutInput, files []service.FileUpload) (*domain.Order, []string, error)
	ListMine(ctx context.Context, verifiedEmail string) ([]domain.Order, error)
	Attachments(ctx context.Context, verifiedEmail, orderID string) ([]domain.Attachment, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID, newStatus string) (*domain.Order, error)
}

type Handler struct {
	svc Service
}

// Register mounts the customer-facing order routes. The group must already
// carry the auth middleware.
func Register(rg *gin.RouterGroup, svc Service) {
	h := &Handler{svc: svc}

	rg.POST("", h.checkout)
	rg.GET("", h.listMine)
	rg.GET("/:id/attachments", h.attachments)
}

// RegisterAdmin mounts the administrative order routes. The group must
// already carry the auth and admin middlewares.
func RegisterAdmin(rg *gin.RouterGroup, svc Service) {
	h := &Handler{svc: svc}

	rg.GET("", h.listAll)
	rg.PATCH("/:id/status", h.updateStatus)
}

func (h *Handler) checkout(c *gin.Context) {
	in := domain.CheckoutInput{
		UserName:           c.PostForm("user_name"),
		UserEmail:          c.PostForm("user_email"),
		CompanyName:        c.PostForm("company_name"),
		PlanName:           c.PostForm("plan_name"),
		ProjectDescription: c.PostForm("project_description"),
		AdditionalNotes:    c.PostForm("additional_notes"),
	}

	var files []service.FileUpload
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, fh := range form.File["files"] {
			files = append(files, fileUpload(fh))
		}
	}

	order, warnings, err := h.svc.Checkout(c.Request.Context(), auth.VerifiedEmail(c), in, files)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := gin.H{"ok": true, "order": order}
	if len(warnings) > 0 {
		resp["upload_warnings"] = warnings
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) listMine(c *gin.Context) {
	orders, err := h.svc.ListMine(c.Request.Context(), auth.VerifiedEmail(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "orders": orders})
}

func (h *Handler) attachments(c *gin.Context) {
	items, err := h.svc.Attachments(c.Request.Context(), auth.VerifiedEmail(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "attachments": items})
}

func (h *Handler) listAll(c *gin.Context) {
	orders, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "orders": orders})
}

type updateStatusReq struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	order, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "order": order})
}

func fileUpload(fh *multipart.FileHeader) service.FileUpload {
	return service.FileUpload{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

func writeError(c *gin.Context, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "validation failed", "fields": ve.Fields})
	case errors.Is(err, domain.ErrNotVerified):
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "please verify your email before submitting the order"})
	case errors.Is(err, domain.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "order not found"})
	case errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, domain.ErrIllegalTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": false, "error": err.Error()})
	default:
		// backend detail stays in the logs, never in the response body
		log.Printf("[error] operation=orders_http path=%s error=%v", c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal server error"})
	}
}
