// Package durable runs reasoning requests as Temporal workflows so a run
// survives process restarts. The workflow delegates the actual reasoning to
// an activity backed by an orchestrator; Temporal retries the activity on
// transient failures and persists the outcome.
package durable

import (
	"context"
	"fmt"
	"time"

	"github.com/casualjim/corvid"
	"github.com/casualjim/corvid/api"
	"github.com/casualjim/corvid/pkg/uuidx"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
)

// Reasoner executes reasoning requests durably. The same instance carries
// the workflow definition and the activity implementation; register it with
// NewWorker on the worker side and start runs with a Runner on the caller
// side.
type Reasoner struct {
	orch *corvid.Orchestrator
}

// NewReasoner wraps an orchestrator for durable execution.
func NewReasoner(orch *corvid.Orchestrator) *Reasoner {
	return &Reasoner{orch: orch}
}

// Run is the workflow entry point. It executes the reasoning activity with
// a retry policy and returns its response.
func (r *Reasoner) Run(ctx workflow.Context, req api.Request) (api.Response, error) {
	log := workflow.GetLogger(ctx)
	log.Info("running reasoning workflow")

	cctx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout:    5 * time.Minute,
		ScheduleToStartTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    1 * time.Second,
			MaximumInterval:    10 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumAttempts:    3,
		},
	})

	var resp api.Response
	if err := workflow.ExecuteActivity(cctx, r.Reason, req).Get(ctx, &resp); err != nil {
		return api.Response{}, err
	}
	return resp, nil
}

// Reason is the activity backing Run. It dispatches the request through the
// orchestrator, fallback included.
func (r *Reasoner) Reason(ctx context.Context, req api.Request) (api.Response, error) {
	log := activity.GetLogger(ctx)
	log.Info("running reasoning activity")
	return r.orch.Process(ctx, req)
}

// WorkflowName is the registered name of the reasoning workflow.
const WorkflowName = "ReasonRun"

// NewWorker creates a Temporal worker serving reasoning runs on taskQueue.
// The caller starts and stops the worker.
func NewWorker(cl client.Client, taskQueue string, orch *corvid.Orchestrator) worker.Worker {
	r := NewReasoner(orch)
	w := worker.New(cl, taskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(r.Run, workflow.RegisterOptions{Name: WorkflowName})
	w.RegisterActivity(r.Reason)
	return w
}

// Runner starts reasoning workflows and waits for their results.
type Runner struct {
	client    client.Client
	taskQueue string
}

// NewRunner creates a Runner submitting to taskQueue.
func NewRunner(cl client.Client, taskQueue string) *Runner {
	return &Runner{client: cl, taskQueue: taskQueue}
}

// Run executes one reasoning request as a workflow and blocks until it
// completes.
func (r *Runner) Run(ctx context.Context, req api.Request) (api.Response, error) {
	fut, err := r.client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        fmt.Sprintf("reason-%s", uuidx.NewString()),
		TaskQueue: r.taskQueue,
	}, WorkflowName, req)
	if err != nil {
		return api.Response{}, fmt.Errorf("failed to start reasoning workflow: %w", err)
	}

	var resp api.Response
	if err := fut.Get(ctx, &resp); err != nil {
		return api.Response{}, fmt.Errorf("reasoning workflow failed: %w", err)
	}
	return resp, nil
}
