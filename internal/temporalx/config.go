package temporalx

import (
	"github.com/yungbote/mooddiary-backend/internal/platform/envutil"
)

type Config struct {
	Address   string
	Namespace string
	TaskQueue string

	ClientCertPath string
	ClientKeyPath  string
	ClientCAPath   string

	// DailyCron is when the time-based rules fan out, in the cron syntax
	// Temporal accepts (optionally prefixed with CRON_TZ=<zone>).
	DailyCron string
}

func LoadConfig() Config {
	return Config{
		Address:   envutil.String("TEMPORAL_ADDRESS", ""),
		Namespace: envutil.String("TEMPORAL_NAMESPACE", "mooddiary"),
		TaskQueue: envutil.String("TEMPORAL_TASK_QUEUE", "mooddiary"),

		ClientCertPath: envutil.String("TEMPORAL_CLIENT_CERT_PATH", ""),
		ClientKeyPath:  envutil.String("TEMPORAL_CLIENT_KEY_PATH", ""),
		ClientCAPath:   envutil.String("TEMPORAL_CLIENT_CA_PATH", ""),

		DailyCron: envutil.String("RULE_EVAL_DAILY_CRON", "0 6 * * *"),
	}
}
