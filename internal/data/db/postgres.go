package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yungbote/mooddiary-backend/internal/domain"
	"github.com/yungbote/mooddiary-backend/internal/platform/envutil"
	"github.com/yungbote/mooddiary-backend/internal/platform/logger"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := envutil.String("POSTGRES_HOST", "localhost")
	postgresPort := envutil.String("POSTGRES_PORT", "5432")
	postgresUser := envutil.String("POSTGRES_USER", "postgres")
	postgresPassword := envutil.String("POSTGRES_PASSWORD", "")
	postgresName := envutil.String("POSTGRES_NAME", "mooddiary")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	serviceLog.Info("Connecting to Postgres...", "host", postgresHost, "database", postgresName)
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := s.db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}

	constraints := []string{
		`ALTER TABLE "diaries_mood_diaries"
		 ADD CONSTRAINT "fk_mood_diary_client"
		 FOREIGN KEY ("client_id") REFERENCES "clients_clients"("id")
		 ON DELETE CASCADE`,
		`ALTER TABLE "diaries_mood_diary_entries"
		 ADD CONSTRAINT "fk_entry_mood_diary"
		 FOREIGN KEY ("mood_diary_id") REFERENCES "diaries_mood_diaries"("id")
		 ON DELETE CASCADE`,
		`ALTER TABLE "rules_rules_clients"
		 ADD CONSTRAINT "fk_rule_client_client"
		 FOREIGN KEY ("client_id") REFERENCES "clients_clients"("id")
		 ON DELETE CASCADE`,
		`ALTER TABLE "rules_triggered_logs"
		 ADD CONSTRAINT "fk_trigger_log_rule"
		 FOREIGN KEY ("rule_id") REFERENCES "rules_rules"("id")
		 ON DELETE CASCADE`,
		`ALTER TABLE "rules_triggered_logs"
		 ADD CONSTRAINT "fk_trigger_log_client"
		 FOREIGN KEY ("client_id") REFERENCES "clients_clients"("id")
		 ON DELETE CASCADE`,
		`ALTER TABLE "notifications_notifications"
		 ADD CONSTRAINT "fk_notification_client"
		 FOREIGN KEY ("client_id") REFERENCES "clients_clients"("id")
		 ON DELETE CASCADE`,
		`ALTER TABLE "notifications_push_subscriptions"
		 ADD CONSTRAINT "fk_push_subscription_client"
		 FOREIGN KEY ("client_id") REFERENCES "clients_clients"("id")
		 ON DELETE CASCADE`,
	}
	for _, stmt := range constraints {
		if err := s.db.Exec(stmt).Error; err != nil {
			// Re-running migrations hits existing constraints; only surface that.
			s.log.Debug("Constraint statement skipped", "error", err)
		}
	}
	return nil
}

// Models lists every persisted type, shared with the test harness.
func Models() []interface{} {
	return []interface{}{
		&domain.Client{},
		&domain.MoodDiary{},
		&domain.MoodDiaryEntry{},
		&domain.Mood{},
		&domain.Activity{},
		&domain.ActivityCategory{},
		&domain.Rule{},
		&domain.RuleClient{},
		&domain.RuleTriggeredLog{},
		&domain.Notification{},
		&domain.PushSubscription{},
	}
}
