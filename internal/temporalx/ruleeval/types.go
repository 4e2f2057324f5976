package ruleeval

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	WorkflowEvaluate    = "rule_eval"
	WorkflowDailyFanout = "rule_eval_daily_fanout"

	ActivityEvaluate      = "rule_eval_run"
	ActivityDailyDispatch = "rule_eval_daily_dispatch"

	// DailyFanoutWorkflowID is fixed: there is exactly one cron fan-out
	// schedule per deployment.
	DailyFanoutWorkflowID = "rule-eval-daily-fanout"
)

// Evaluation kinds, matching the catalog's evaluation column.
const (
	KindEventBased = "event-based"
	KindTimeBased  = "time-based"
)

// EvalRequest asks for one registry run for one client at a logical
// timestamp. The same request always yields the same workflow ID, so
// duplicate dispatches of one diary write or one daily stamp collapse
// server-side.
type EvalRequest struct {
	ClientID    uuid.UUID `json:"client_id"`
	Kind        string    `json:"kind"`
	RequestedAt time.Time `json:"requested_at"`
}

// EvalResult reports which rules triggered.
type EvalResult struct {
	Triggered []string `json:"triggered,omitempty"`
	Evaluated int      `json:"evaluated"`
}

// FanoutResult reports how many per-client evaluations a daily run started.
type FanoutResult struct {
	RequestedAt time.Time `json:"requested_at"`
	Dispatched  int       `json:"dispatched"`
}

// WorkflowID derives the dedupe identity of an evaluation request.
// Microsecond resolution matches the stored requested_at column.
func WorkflowID(kind string, clientID uuid.UUID, requestedAt time.Time) string {
	return fmt.Sprintf("rule-eval:%s:%s:%d", kind, clientID, requestedAt.UnixMicro())
}
