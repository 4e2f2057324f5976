package ruleeval

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.temporal.io/api/serviceerror"
	temporalsdkclient "go.temporal.io/sdk/client"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/mooddiary-backend/internal/data/repos"
	"github.com/yungbote/mooddiary-backend/internal/platform/envutil"
	"github.com/yungbote/mooddiary-backend/internal/platform/logger"
	"github.com/yungbote/mooddiary-backend/internal/rules"
	"github.com/yungbote/mooddiary-backend/internal/services"
)

type Activities struct {
	Log     *logger.Logger
	Clients repos.ClientRepo
	Eval    services.RuleEvaluationService
	TC      temporalsdkclient.Client
}

// Evaluate runs the registry named by the request. Gate stops are normal
// outcomes; only infrastructure failures surface as activity errors and get
// retried by the workflow's policy.
func (a *Activities) Evaluate(ctx context.Context, req EvalRequest) (EvalResult, error) {
	var res EvalResult
	if a == nil || a.Eval == nil {
		return res, fmt.Errorf("ruleeval: activity not configured")
	}

	var outcomes []rules.Outcome
	var err error
	switch req.Kind {
	case KindEventBased:
		outcomes, err = a.Eval.EvaluateEventBased(ctx, req.ClientID, req.RequestedAt)
	case KindTimeBased:
		outcomes, err = a.Eval.EvaluateTimeBased(ctx, req.ClientID, req.RequestedAt)
	default:
		return res, fmt.Errorf("ruleeval: unknown kind %q", req.Kind)
	}
	if err != nil {
		return res, err
	}

	res.Evaluated = len(outcomes)
	for _, out := range outcomes {
		if out.Triggered {
			res.Triggered = append(res.Triggered, out.Rule)
		}
	}
	return res, nil
}

// DailyDispatch starts one time-based evaluation workflow per active
// client, all stamped with the same logical timestamp. Already-started
// executions are fine: a cron retry lands on the same workflow IDs.
func (a *Activities) DailyDispatch(ctx context.Context, stamp time.Time) (int, error) {
	if a == nil || a.Clients == nil || a.TC == nil {
		return 0, fmt.Errorf("ruleeval: activity not configured")
	}

	clients, err := a.Clients.ListActive(ctx, nil)
	if err != nil {
		return 0, err
	}

	cfg := loadFanoutConfig()
	var dispatched atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.concurrency)

	for _, client := range clients {
		req := EvalRequest{ClientID: client.ID, Kind: KindTimeBased, RequestedAt: stamp}
		g.Go(func() error {
			_, err := a.TC.ExecuteWorkflow(gctx, temporalsdkclient.StartWorkflowOptions{
				ID:        WorkflowID(req.Kind, req.ClientID, req.RequestedAt),
				TaskQueue: cfg.taskQueue,
			}, WorkflowEvaluate, req)
			if err != nil {
				var started *serviceerror.WorkflowExecutionAlreadyStarted
				if errors.As(err, &started) {
					return nil
				}
				return fmt.Errorf("dispatch client %s: %w", req.ClientID, err)
			}
			dispatched.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(dispatched.Load()), err
	}

	if a.Log != nil {
		a.Log.Info("Daily rule evaluations dispatched", "clients", len(clients), "dispatched", dispatched.Load(), "requested_at", stamp)
	}
	return int(dispatched.Load()), nil
}

type fanoutConfig struct {
	taskQueue   string
	concurrency int
}

func loadFanoutConfig() fanoutConfig {
	concurrency := envutil.Int("RULE_EVAL_FANOUT_CONCURRENCY", 8)
	if concurrency < 1 {
		concurrency = 1
	}
	return fanoutConfig{
		taskQueue:   envutil.String("TEMPORAL_TASK_QUEUE", "mooddiary"),
		concurrency: concurrency,
	}
}
