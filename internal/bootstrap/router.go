package bootstrap

import (
	"database/sql"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	httpapi "github.com/devstudio-hq/orders-backend/internal/api/http"
	"github.com/devstudio-hq/orders-backend/internal/api/http/middleware"
	"github.com/devstudio-hq/orders-backend/internal/auth"
	"github.com/devstudio-hq/orders-backend/internal/contacts"
	dashhttp "github.com/devstudio-hq/orders-backend/internal/dashboard/http"
	"github.com/devstudio-hq/orders-backend/internal/orders/events"
	ordershttp "github.com/devstudio-hq/orders-backend/internal/orders/http"
	"github.com/devstudio-hq/orders-backend/internal/orders/repository"
	"github.com/devstudio-hq/orders-backend/internal/orders/service"
	s3store "github.com/devstudio-hq/orders-backend/internal/storage/s3"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	DB          *pgxpool.Pool
	SQLDB       *sql.DB
	Auth        *fbauth.Client
	Redis       *redis.Client
	Blobs       *s3store.Store
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposeHeaders: []string{"X-Request-Id"},
		MaxAge:        12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB)
	healthHandler.RegisterRoutes(r)

	orderRepo := repository.NewOrderRepo(dep.DB)
	attachmentRepo := repository.NewAttachmentRepo(dep.DB)
	contactRepo := contacts.NewRepo(dep.SQLDB)
	bus := events.NewBus(dep.Redis)
	orderSvc := service.NewOrderService(orderRepo, attachmentRepo, dep.Blobs, bus)

	api := r.Group("/api/v1")

	// public contact form, throttled per client
	contactsGroup := api.Group("/contacts")
	contactsGroup.Use(middleware.RateLimit(rate.Limit(1), 5))
	contacts.Register(contactsGroup, contactRepo)

	// customer routes require a verified identity token
	ordersGroup := api.Group("/orders")
	ordersGroup.Use(auth.Middleware(dep.Auth))
	ordershttp.Register(ordersGroup, orderSvc)

	// admin routes additionally require the admin claim
	adminGroup := api.Group("/admin")
	adminGroup.Use(auth.Middleware(dep.Auth), auth.RequireAdmin())
	ordershttp.RegisterAdmin(adminGroup.Group("/orders"), orderSvc)
	dashhttp.Register(adminGroup.Group("/dashboard"), dashhttp.New(orderRepo, bus))

	return r
}
