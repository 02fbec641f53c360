package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	adapterHTTP "github.com/comitanigiacomo/kanso-nutrition/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-nutrition/internal/adapters/notify"
	"github.com/comitanigiacomo/kanso-nutrition/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-nutrition/internal/config"
	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
	"github.com/comitanigiacomo/kanso-nutrition/internal/core/services"
	"github.com/comitanigiacomo/kanso-nutrition/internal/core/workers"
)

type app struct {
	router         *gin.Engine
	analysisWorker *workers.AnalysisWorker
	reminderWorker *workers.ReminderWorker
}

// newApp wires storage, services and handlers. rdb may be nil, in which
// case reads go straight to Postgres and rate limiting is off.
func newApp(ctx context.Context, cfg config.Config, db *sqlx.DB, rdb *redis.Client, startTime time.Time) *app {
	userRepo := repository.NewPostgresUserRepository(db)
	productRepo := repository.NewPostgresProductRepository(db)
	recipeRepo := repository.NewPostgresRecipeRepository(db)

	var foodLogRepo domain.FoodLogRepository = repository.NewPostgresFoodLogRepository(db)
	var profileRepo domain.ProfileRepository = repository.NewPostgresProfileRepository(db)
	if rdb != nil {
		foodLogRepo = repository.NewCachedFoodLogRepository(foodLogRepo, rdb)
		profileRepo = repository.NewCachedProfileRepository(profileRepo, rdb)
	}

	hub := notify.NewRealtimeHub()
	notifier := notify.MultiNotifier{notify.NewLogNotifier(), hub}
	if cfg.AWS.SNSTopicArn != "" {
		client, err := notify.NewSNSClient(ctx, cfg.AWS.Region)
		if err != nil {
			log.Printf("[NOTIFY] SNS disabled: %v", err)
		} else {
			notifier = append(notifier, notify.NewSNSNotifier(client, cfg.AWS.SNSTopicArn))
			log.Printf("[NOTIFY] Publishing to SNS topic %s", cfg.AWS.SNSTopicArn)
		}
	}

	tokenService := services.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Duration, userRepo)
	authService := services.NewAuthService(userRepo)
	profileService := services.NewProfileService(profileRepo, cfg.Analytics)
	catalogService := services.NewCatalogService(productRepo, recipeRepo)
	analyticsService := services.NewAnalyticsService(
		foodLogRepo,
		profileService,
		services.NewNutrientResolver(productRepo, recipeRepo),
		cfg.Analytics,
	)

	analysisWorker := workers.NewAnalysisWorker(analyticsService, notifier)
	foodLogService := services.NewFoodLogService(foodLogRepo, productRepo, recipeRepo, analysisWorker)

	a := &app{analysisWorker: analysisWorker}
	if cfg.RemindersEnabled {
		a.reminderWorker = workers.NewReminderWorker(profileRepo, analyticsService, notifier, cfg.Reminder)
	}

	a.router = adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:      adapterHTTP.NewAuthHandler(authService, tokenService),
		FoodLogHandler:   adapterHTTP.NewFoodLogHandler(foodLogService),
		CatalogHandler:   adapterHTTP.NewCatalogHandler(catalogService),
		ProfileHandler:   adapterHTTP.NewProfileHandler(profileService),
		AnalyticsHandler: adapterHTTP.NewAnalyticsHandler(analyticsService, cfg.Analytics.DefaultWindowDays),
		RealtimeHandler:  adapterHTTP.NewRealtimeHandler(hub),
		TokenService:     tokenService,
		DB:               db,
		Redis:            rdb,
		StartTime:        startTime,
		RateLimit:        cfg.HTTP.RateLimit,
		RateWindow:       cfg.HTTP.RateWindow,
	})

	return a
}

// start launches the background workers; they stop when ctx is cancelled.
func (a *app) start(ctx context.Context) {
	a.analysisWorker.Start(ctx)
	if a.reminderWorker != nil {
		a.reminderWorker.Start(ctx)
	}
}
