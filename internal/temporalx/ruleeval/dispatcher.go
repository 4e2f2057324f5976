package ruleeval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/api/serviceerror"
	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/yungbote/mooddiary-backend/internal/platform/logger"
	"github.com/yungbote/mooddiary-backend/internal/services"
)

// Dispatcher starts evaluation workflows from the write path. It satisfies
// services.RuleDispatcher so the diary service never links against the
// Temporal SDK directly.
type Dispatcher struct {
	tc        temporalsdkclient.Client
	taskQueue string
	log       *logger.Logger
}

func NewDispatcher(tc temporalsdkclient.Client, taskQueue string, baseLog *logger.Logger) *Dispatcher {
	return &Dispatcher{
		tc:        tc,
		taskQueue: taskQueue,
		log:       baseLog.With("component", "RuleEvalDispatcher"),
	}
}

var _ services.RuleDispatcher = (*Dispatcher)(nil)

func (d *Dispatcher) DispatchEventBased(ctx context.Context, clientID uuid.UUID, requestedAt time.Time) error {
	return d.dispatch(ctx, EvalRequest{ClientID: clientID, Kind: KindEventBased, RequestedAt: requestedAt})
}

func (d *Dispatcher) DispatchTimeBased(ctx context.Context, clientID uuid.UUID, requestedAt time.Time) error {
	return d.dispatch(ctx, EvalRequest{ClientID: clientID, Kind: KindTimeBased, RequestedAt: requestedAt})
}

func (d *Dispatcher) dispatch(ctx context.Context, req EvalRequest) error {
	if d == nil || d.tc == nil {
		if d != nil && d.log != nil {
			d.log.Warn("Temporal disabled; dropping evaluation request", "client_id", req.ClientID, "kind", req.Kind)
		}
		return nil
	}

	id := WorkflowID(req.Kind, req.ClientID, req.RequestedAt)
	_, err := d.tc.ExecuteWorkflow(ctx, temporalsdkclient.StartWorkflowOptions{
		ID:        id,
		TaskQueue: d.taskQueue,
	}, WorkflowEvaluate, req)
	if err != nil {
		var started *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &started) {
			// Same write, same timestamp: the evaluation is already on its way.
			return nil
		}
		return fmt.Errorf("dispatch %s: %w", id, err)
	}
	d.log.Debug("Evaluation dispatched", "workflow_id", id)
	return nil
}
