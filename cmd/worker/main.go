// The worker runs the nightly maintenance jobs: it logs a dashboard stats
// snapshot and prunes contact messages past their retention window.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/devstudio-hq/orders-backend/config"
	"github.com/devstudio-hq/orders-backend/internal/bootstrap"
	"github.com/devstudio-hq/orders-backend/internal/contacts"
	"github.com/devstudio-hq/orders-backend/internal/dashboard"
	"github.com/devstudio-hq/orders-backend/internal/orders/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	db, err := bootstrap.OpenDB(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	sqlDB, err := bootstrap.OpenSQLDB(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("open sql db: %v", err)
	}
	defer sqlDB.Close()

	orderRepo := repository.NewOrderRepo(db)
	contactRepo := contacts.NewRepo(sqlDB)
	retention := time.Duration(cfg.App.ContactRetention) * 24 * time.Hour

	c := cron.New(cron.WithSeconds())

	// 12:00 AM
	_, err = c.AddFunc("0 0 0 * * *", func() {
		runNightlyJobs(orderRepo, contactRepo, retention)
	})
	if err != nil {
		log.Fatalf("failed to create cron job: %v", err)
	}

	log.Println("Cron scheduler started (running nightly at 12:00AM)")
	c.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	<-c.Stop().Done()
	log.Println("worker stopped")
}

func runNightlyJobs(orders *repository.OrderRepo, contactRepo *contacts.Repo, retention time.Duration) {
	log.Println("Nightly job started (stats snapshot + contact prune)...")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	all, err := orders.ListAll(ctx)
	if err != nil {
		log.Printf("stats snapshot failed: %v", err)
	} else {
		r, _ := dashboard.PresetRange("all", time.Now(), all)
		stats := dashboard.Aggregate(all, r)
		log.Printf("stats snapshot: orders=%d revenue=%.2f pending=%d in_progress=%d completed=%d",
			stats.TotalOrders, stats.TotalRevenue, stats.PendingOrders, stats.InProgressOrders, stats.CompletedOrders)
	}

	pruned, err := contactRepo.DeleteOlderThan(ctx, time.Now().Add(-retention))
	if err != nil {
		log.Printf("contact prune failed: %v", err)
	} else if pruned > 0 {
		log.Printf("pruned %d contact messages", pruned)
	}

	log.Println("Nightly job completed at:", time.Now().Format(time.RFC1123))
}
