package temporalworker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/activity"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/yungbote/mooddiary-backend/internal/data/repos"
	"github.com/yungbote/mooddiary-backend/internal/platform/envutil"
	"github.com/yungbote/mooddiary-backend/internal/platform/logger"
	"github.com/yungbote/mooddiary-backend/internal/services"
	"github.com/yungbote/mooddiary-backend/internal/temporalx"
	"github.com/yungbote/mooddiary-backend/internal/temporalx/ruleeval"
)

// Runner hosts the rule evaluation workflows and activities on the shared
// task queue and keeps the daily fan-out cron scheduled.
type Runner struct {
	log *logger.Logger

	tc      temporalsdkclient.Client
	clients repos.ClientRepo
	eval    services.RuleEvaluationService
}

func NewRunner(
	log *logger.Logger,
	tc temporalsdkclient.Client,
	clients repos.ClientRepo,
	eval services.RuleEvaluationService,
) (*Runner, error) {
	if tc == nil {
		return nil, fmt.Errorf("temporal client is not configured")
	}
	if clients == nil || eval == nil {
		return nil, fmt.Errorf("temporal worker missing deps")
	}
	return &Runner{log: log, tc: tc, clients: clients, eval: eval}, nil
}

func (r *Runner) Start(ctx context.Context) error {
	if r == nil || r.tc == nil {
		return fmt.Errorf("temporal worker not initialized")
	}

	cfg := temporalx.LoadConfig()
	if r.log != nil {
		r.log.Info("Starting Temporal worker", "address", cfg.Address, "namespace", cfg.Namespace, "task_queue", cfg.TaskQueue)
	}

	if envutil.Bool("TEMPORAL_AUTO_REGISTER_NAMESPACE", false) {
		baseCtx := ctx
		if baseCtx == nil {
			baseCtx = context.Background()
		}
		if err := temporalx.EnsureNamespace(baseCtx, cfg, r.log); err != nil && r.log != nil {
			r.log.Warn("Temporal namespace ensure failed; worker will retry on start", "namespace", cfg.Namespace, "error", err)
		}
	}

	maxWait := time.Duration(envutil.Int("TEMPORAL_WORKER_START_MAX_WAIT_SECONDS", 60)) * time.Second
	backoff := time.Duration(envutil.Int("TEMPORAL_WORKER_START_BACKOFF_MS", 250)) * time.Millisecond
	backoffMax := time.Duration(envutil.Int("TEMPORAL_WORKER_START_BACKOFF_MAX_MS", 5000)) * time.Millisecond
	deadline := time.Now().Add(maxWait)

	for attempt := 1; ; attempt++ {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		w := r.newWorker(cfg)
		startErr := w.Start()
		if startErr == nil {
			if ctx != nil {
				go func() {
					<-ctx.Done()
					w.Stop()
				}()
			}
			if r.log != nil {
				r.log.Info("Temporal worker started", "namespace", cfg.Namespace, "task_queue", cfg.TaskQueue, "attempts", attempt)
			}
			return r.ensureDailyFanout(ctx, cfg)
		}
		w.Stop()

		var nfe *serviceerror.NamespaceNotFound
		if errors.As(startErr, &nfe) && envutil.Bool("TEMPORAL_AUTO_REGISTER_NAMESPACE", false) {
			baseCtx := ctx
			if baseCtx == nil {
				baseCtx = context.Background()
			}
			_ = temporalx.EnsureNamespace(baseCtx, cfg, r.log)
		}

		if maxWait <= 0 || time.Now().After(deadline) {
			var nfe2 *serviceerror.NamespaceNotFound
			if errors.As(startErr, &nfe2) {
				return fmt.Errorf("temporal namespace not found (namespace=%s): %w", cfg.Namespace, startErr)
			}
			return startErr
		}

		if r.log != nil {
			r.log.Warn("Temporal worker failed to start; retrying", "namespace", cfg.Namespace, "task_queue", cfg.TaskQueue, "attempt", attempt, "error", startErr)
		}
		if sleep := clampBackoff(backoff, backoffMax, attempt); sleep > 0 {
			time.Sleep(sleep)
		}
	}
}

func (r *Runner) newWorker(cfg temporalx.Config) worker.Worker {
	concurrency := envutil.Int("WORKER_CONCURRENCY", 4)
	if concurrency < 1 {
		concurrency = 1
	}

	w := worker.New(r.tc, cfg.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize:     concurrency,
		MaxConcurrentWorkflowTaskExecutionSize: concurrency,
	})

	acts := &ruleeval.Activities{
		Log:     r.log,
		Clients: r.clients,
		Eval:    r.eval,
		TC:      r.tc,
	}

	w.RegisterWorkflowWithOptions(ruleeval.EvaluateWorkflow, workflow.RegisterOptions{Name: ruleeval.WorkflowEvaluate})
	w.RegisterWorkflowWithOptions(ruleeval.DailyFanoutWorkflow, workflow.RegisterOptions{Name: ruleeval.WorkflowDailyFanout})
	w.RegisterActivityWithOptions(acts.Evaluate, activity.RegisterOptions{Name: ruleeval.ActivityEvaluate})
	w.RegisterActivityWithOptions(acts.DailyDispatch, activity.RegisterOptions{Name: ruleeval.ActivityDailyDispatch})
	return w
}

// ensureDailyFanout keeps exactly one cron execution of the fan-out
// workflow alive. Starting it again while it runs is a no-op.
func (r *Runner) ensureDailyFanout(ctx context.Context, cfg temporalx.Config) error {
	baseCtx := ctx
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	_, err := r.tc.ExecuteWorkflow(baseCtx, temporalsdkclient.StartWorkflowOptions{
		ID:           ruleeval.DailyFanoutWorkflowID,
		TaskQueue:    cfg.TaskQueue,
		CronSchedule: cfg.DailyCron,
	}, ruleeval.WorkflowDailyFanout)
	if err != nil {
		var started *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &started) {
			return nil
		}
		return fmt.Errorf("ensure daily fanout: %w", err)
	}
	if r.log != nil {
		r.log.Info("Daily fan-out cron scheduled", "workflow_id", ruleeval.DailyFanoutWorkflowID, "cron", cfg.DailyCron)
	}
	return nil
}

func clampBackoff(base, max time.Duration, attempt int) time.Duration {
	if base <= 0 {
		base = 250 * time.Millisecond
	}
	sleep := base
	for i := 1; i < attempt; i++ {
		sleep *= 2
		if max > 0 && sleep >= max {
			return max
		}
	}
	if max > 0 && sleep > max {
		return max
	}
	return sleep
}
