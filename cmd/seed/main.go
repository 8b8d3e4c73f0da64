// Command seed imports an activity catalog into PostgreSQL.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-TourBookingService/internal/config"
	"github.com/m04kA/SMC-TourBookingService/internal/infra/cache/capacitycache"
	activityRepo "github.com/m04kA/SMC-TourBookingService/internal/infra/storage/activity"
	reservationRepo "github.com/m04kA/SMC-TourBookingService/internal/infra/storage/reservation"
	activitiesService "github.com/m04kA/SMC-TourBookingService/internal/service/activities"
	"github.com/m04kA/SMC-TourBookingService/internal/service/activities/models"
	"github.com/m04kA/SMC-TourBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TourBookingService/pkg/logger"
	"github.com/m04kA/SMC-TourBookingService/pkg/txmanager"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to service config")
	catalogPath := flag.String("catalog", "configs/catalog.yaml", "path to activity catalog")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	catalog, err := config.LoadCatalog(*catalogPath)
	if err != nil {
		log.Fatal("Failed to load catalog: %v", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}

	wrapped := dbmetrics.Wrap(db, nil)
	svc := activitiesService.NewService(
		activityRepo.NewRepository(wrapped),
		reservationRepo.NewRepository(wrapped),
		txmanager.NewTransactionManager(wrapped),
		capacitycache.Nop{},
		log,
	)

	ctx := context.Background()
	var created, skipped int
	for _, item := range catalog.Activities {
		_, err := svc.Create(ctx, toRequest(item))
		switch {
		case err == nil:
			created++
		case errors.Is(err, activitiesService.ErrSlugTaken):
			// Уже импортирована: повторный запуск не меняет данные
			skipped++
		default:
			log.Fatal("Failed to import activity %s: %v", item.Slug, err)
		}
	}

	log.Info("Catalog imported: %d created, %d already present", created, skipped)
}

func toRequest(a config.CatalogActivity) *models.ActivityRequest {
	req := &models.ActivityRequest{
		Slug:            a.Slug,
		Name:            a.Name,
		Description:     a.Description,
		Images:          a.Images,
		Price:           a.Price,
		OriginalPrice:   a.OriginalPrice,
		Currency:        a.Currency,
		DurationMinutes: a.DurationMinutes,
		Featured:        a.Featured,
		Rating:          a.Rating,
		ReviewCount:     a.ReviewCount,
		Active:          a.Active,
	}
	if a.Schedule != nil {
		req.ScheduleWeekdays = a.Schedule.Weekdays
		req.ScheduleTimes = a.Schedule.Times
		req.DefaultSeats = a.Schedule.Seats
	}
	return req
}
