package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yungbote/mooddiary-backend/internal/data/db"
	"github.com/yungbote/mooddiary-backend/internal/data/repos"
	"github.com/yungbote/mooddiary-backend/internal/domain"
	"github.com/yungbote/mooddiary-backend/internal/platform/envutil"
	"github.com/yungbote/mooddiary-backend/internal/platform/logger"
	"github.com/yungbote/mooddiary-backend/internal/services"
)

// Seeds the static tables: rule catalog, mood scale and activity taxonomy.
// With SEED_DEMO_CLIENT=true it also creates a demo client subscribed to
// every rule.
func main() {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	ruleRepo := repos.NewRuleRepo(thePG, log)
	catalogRepo := repos.NewCatalogRepo(thePG, log)
	clientRepo := repos.NewClientRepo(thePG, log)
	diaryRepo := repos.NewDiaryRepo(thePG, log)

	seedService := services.NewSeedService(ruleRepo, catalogRepo, log)

	ctx := context.Background()
	if _, err := seedService.SeedRules(ctx); err != nil {
		log.Fatal("Seeding rules failed", "error", err)
	}
	if err := seedService.SeedMoods(ctx); err != nil {
		log.Fatal("Seeding moods failed", "error", err)
	}
	if err := seedService.SeedActivities(ctx); err != nil {
		log.Fatal("Seeding activities failed", "error", err)
	}

	if envutil.Bool("SEED_DEMO_CLIENT", false) {
		granted := true
		clients, err := clientRepo.Create(ctx, nil, []*domain.Client{{
			Identifier:               envutil.String("SEED_DEMO_CLIENT_IDENTIFIER", "demo-client"),
			Active:                   true,
			PushNotificationsGranted: &granted,
		}})
		if err != nil {
			log.Fatal("Seeding demo client failed", "error", err)
		}
		demo := clients[0]
		if _, err := diaryRepo.GetOrCreateDiary(ctx, nil, demo.ID); err != nil {
			log.Fatal("Seeding demo diary failed", "error", err)
		}
		if err := seedService.SubscribeClientToAllRules(ctx, demo.ID); err != nil {
			log.Fatal("Subscribing demo client failed", "error", err)
		}
		log.Info("Demo client seeded", "client_id", demo.ID)
	}

	log.Info("Seeding complete")
}
