package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/mooddiary-backend/internal/data/db"
	"github.com/yungbote/mooddiary-backend/internal/data/repos"
	"github.com/yungbote/mooddiary-backend/internal/platform/envutil"
	"github.com/yungbote/mooddiary-backend/internal/platform/logger"
	"github.com/yungbote/mooddiary-backend/internal/rules"
	"github.com/yungbote/mooddiary-backend/internal/services"
	"github.com/yungbote/mooddiary-backend/internal/temporalx"
	"github.com/yungbote/mooddiary-backend/internal/temporalx/temporalworker"
)

func main() {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Setting up Postgres from main...")
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	log.Info("Setting up Repos from main...")
	clientRepo := repos.NewClientRepo(thePG, log)
	diaryRepo := repos.NewDiaryRepo(thePG, log)
	ruleRepo := repos.NewRuleRepo(thePG, log)
	triggerLogRepo := repos.NewTriggerLogRepo(thePG, log)
	notificationRepo := repos.NewNotificationRepo(thePG, log)
	pushSubscriptionRepo := repos.NewPushSubscriptionRepo(thePG, log)

	log.Info("Setting up Services from main...")
	pushService := services.NewWebPushService(clientRepo, pushSubscriptionRepo, services.PushConfigFromEnv(), log)
	evaluator := rules.NewEvaluator(rules.Deps{
		Diaries:     diaryRepo,
		Rules:       ruleRepo,
		TriggerLogs: triggerLogRepo,
		Log:         log,
	}, notificationRepo, pushService, log)
	evalService := services.NewRuleEvaluationService(evaluator, log)

	log.Info("Connecting to Temporal from main...")
	temporalClient, err := temporalx.NewClient(log)
	if err != nil {
		log.Fatal("Temporal init failed", "error", err)
	}
	if temporalClient == nil {
		log.Fatal("Temporal is required for the worker; set TEMPORAL_ADDRESS")
	}
	defer temporalClient.Close()

	runner, err := temporalworker.NewRunner(log, temporalClient, clientRepo, evalService)
	if err != nil {
		log.Fatal("Temporal worker init failed", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runner.Start(ctx); err != nil {
		log.Fatal("Temporal worker start failed", "error", err)
	}

	log.Info("Worker running; waiting for shutdown signal...")
	<-ctx.Done()
	log.Info("Shutting down")
}
