package ruleeval

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/yungbote/mooddiary-backend/internal/rules"
)

// EvaluateWorkflow runs one registry for one client. The heavy lifting is a
// single activity; retries happen at the activity level so a transient DB
// failure re-runs the evaluation with the same logical timestamp and the
// trigger log keeps re-delivery idempotent.
func EvaluateWorkflow(ctx workflow.Context, req EvalRequest) (EvalResult, error) {
	var res EvalResult
	if req.Kind != KindEventBased && req.Kind != KindTimeBased {
		return res, fmt.Errorf("ruleeval: unknown kind %q", req.Kind)
	}

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    5,
		},
	})

	err := workflow.ExecuteActivity(ctx, ActivityEvaluate, req).Get(ctx, &res)
	return res, err
}

// DailyFanoutWorkflow runs on the daily cron. Every run stamps the end of
// the previous day in the workflow's notion of now and dispatches a
// time-based evaluation per active client. Re-runs within the same day
// produce the same stamp and therefore the same workflow IDs downstream.
func DailyFanoutWorkflow(ctx workflow.Context) (FanoutResult, error) {
	stamp := rules.EndOfPreviousDay(workflow.Now(ctx).UTC())

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	})

	res := FanoutResult{RequestedAt: stamp}
	var dispatched int
	if err := workflow.ExecuteActivity(ctx, ActivityDailyDispatch, stamp).Get(ctx, &dispatched); err != nil {
		return res, err
	}
	res.Dispatched = dispatched
	return res, nil
}
