package contacts

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo *Repo
}

func Register(rg *gin.RouterGroup, repo *Repo) {
	h := &Handler{repo: repo}

	rg.POST("", h.create)
}

type createReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	msg := Message{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}

	if errs := msg.Validate(); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "validation failed", "fields": errs})
		return
	}

	if err := h.repo.Insert(c.Request.Context(), &msg); err != nil {
		log.Printf("[error] operation=create_contact error=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "contact": msg})
}
