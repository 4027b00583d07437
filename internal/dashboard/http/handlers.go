package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devstudio-hq/orders-backend/internal/dashboard"
	"github.com/devstudio-hq/orders-backend/internal/orders/domain"
	"github.com/devstudio-hq/orders-backend/internal/orders/events"
)

type OrderSource interface {
	ListAll(ctx context.Context) ([]domain.Order, error)
}

type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan events.Event, func())
}

type Handler struct {
	orders OrderSource
	bus    Subscriber
}

func New(orders OrderSource, bus Subscriber) *Handler {
	return &Handler{orders: orders, bus: bus}
}

// Register mounts the dashboard routes. The group must already carry the
// auth and admin middlewares.
func Register(rg *gin.RouterGroup, h *Handler) {
	rg.GET("/stats", h.stats)
	rg.GET("/stream", h.stream)
}

func (h *Handler) stats(c *gin.Context) {
	orders, err := h.orders.ListAll(c.Request.Context())
	if err != nil {
		log.Printf("[error] operation=dashboard_stats error=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal server error"})
		return
	}

	r, err := resolveRange(c.Query("range"), c.Query("start"), c.Query("end"), orders)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "stats": dashboard.Aggregate(orders, r)})
}

// stream pushes a stats snapshot over SSE on connect and again after every
// order-change event: convergence by full re-read, no delta tracking.
func (h *Handler) stream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "streaming unsupported"})
		return
	}

	ctx := c.Request.Context()
	rangePreset := c.DefaultQuery("range", "30d")

	send := func(event string) {
		stats, err := h.snapshot(ctx, rangePreset)
		if err != nil {
			log.Printf("[warn] operation=dashboard_stream error=%v", err)
			return
		}
		data, _ := json.Marshal(gin.H{"stats": stats})
		fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, data)
		flusher.Flush()
	}

	send("initial")

	eventCh, stop := h.bus.Subscribe(ctx)
	defer stop()

	// keep-alive pings hold idle proxies open
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()

		case _, ok := <-eventCh:
			if !ok {
				return
			}
			send("update")
		}
	}
}

func (h *Handler) snapshot(ctx context.Context, preset string) (dashboard.Stats, error) {
	orders, err := h.orders.ListAll(ctx)
	if err != nil {
		return dashboard.Stats{}, fmt.Errorf("list orders: %w", err)
	}

	r, err := resolveRange(preset, "", "", orders)
	if err != nil {
		return dashboard.Stats{}, err
	}

	return dashboard.Aggregate(orders, r), nil
}

func resolveRange(preset, start, end string, orders []domain.Order) (dashboard.Range, error) {
	if start != "" || end != "" {
		s, err := time.Parse("2006-01-02", start)
		if err != nil {
			return dashboard.Range{}, fmt.Errorf("invalid start date %q", start)
		}
		e, err := time.Parse("2006-01-02", end)
		if err != nil {
			return dashboard.Range{}, fmt.Errorf("invalid end date %q", end)
		}
		return dashboard.CustomRange(s, e)
	}
	if preset == "" {
		preset = "30d"
	}
	return dashboard.PresetRange(preset, time.Now(), orders)
}
