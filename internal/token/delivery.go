package token

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// State identifies where a token execution is in its lifecycle. Every
// execution starts in StateIssued and ends in exactly one of the terminal
// states StateRejected, StateCompleted, or StateFailed.
type State string

const (
	// StateIssued means the mutation response has been received and not
	// yet acted on.
	StateIssued State = "ISSUED"
	// StateRejected means server-side validation blocked the mutation
	// before any hardware action.
	StateRejected State = "REJECTED"
	// StateDelivering means the token is being dispatched to targets.
	StateDelivering State = "DELIVERING"
	// StateAwaitingRecipe means accepted targets are being polled for
	// recipe completion.
	StateAwaitingRecipe State = "AWAITING_RECIPE"
	// StateCompleted means every target's recipe finished successfully.
	StateCompleted State = "COMPLETED"
	// StateFailed means at least one target failed delivery, failed its
	// recipe, or exhausted the polling budget.
	StateFailed State = "FAILED"
)

// RecipeRef identifies one server-side recipe to wait on. A zero ref means
// the target acknowledged delivery without a trackable recipe (recipe
// engine v1) and there is nothing to poll.
type RecipeRef struct {
	RecipeUUID string `json:"recipe_uuid_to_wait_on"`
	NPodUUID   string `json:"npod_uuid_to_wait_on"`
}

// Ack confirms that a target accepted token delivery. Recipe engine v2
// targets name the recipe to wait on; multi-SPU deliveries may spawn
// several individual recipes.
type Ack struct {
	Target string
	RecipeRef
	Individual []RecipeRef `json:"individual_recipes"`
}

// Deliverer dispatches an opaque security token to a single target and
// reports whether the target accepted it.
type Deliverer interface {
	Deliver(ctx context.Context, target, token string) (*Ack, error)
}

// Outcome is the remote execution status of a recipe as observed by one
// poll.
type Outcome int

const (
	// OutcomePending means the recipe has not reached a terminal state.
	OutcomePending Outcome = iota
	// OutcomeCompleted means the recipe finished successfully.
	OutcomeCompleted
	// OutcomeFailed means the recipe reached a terminal failure state.
	OutcomeFailed
)

// RecipePoller reports the remote execution status of a recipe. The client
// only observes recipe state; it owns none of it.
type RecipePoller interface {
	Poll(ctx context.Context, ref RecipeRef) (Outcome, string, error)
}

// TargetError records a per-target delivery refusal.
type TargetError struct {
	Target string
	Reason string
}

// DeliveryError reports the targets that refused token delivery. Delivery
// to the remaining targets is not blocked by these failures.
type DeliveryError struct {
	Failed []TargetError
}

func (e *DeliveryError) Error() string {
	parts := make([]string, len(e.Failed))
	for i, f := range e.Failed {
		parts[i] = fmt.Sprintf("%s: %s", f.Target, f.Reason)
	}
	return fmt.Sprintf("token delivery failed for %d target(s): %s",
		len(e.Failed), strings.Join(parts, "; "))
}

// Targets returns the identifiers of the targets that refused delivery.
func (e *DeliveryError) Targets() []string {
	targets := make([]string, len(e.Failed))
	for i, f := range e.Failed {
		targets[i] = f.Target
	}
	return targets
}

// RecipeError reports that a target's recipe reached an explicit terminal
// failure state.
type RecipeError struct {
	Target string
	Detail string
}

func (e *RecipeError) Error() string {
	return fmt.Sprintf("recipe failed on %s: %s", e.Target, e.Detail)
}

// TimeoutError reports that the polling budget was exhausted while the
// named targets' recipes remained non-terminal. It is distinct from an
// explicit remote failure.
type TimeoutError struct {
	Targets  []string
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("recipe wait timed out after %d attempts for: %s",
		e.Attempts, strings.Join(e.Targets, ", "))
}

// Options tunes one token execution.
type Options struct {
	// PollInterval is the fixed delay between recipe status polls.
	PollInterval time.Duration
	// MaxAttempts bounds the number of polls per execution.
	MaxAttempts int
}

const (
	defaultPollInterval = 5 * time.Second
	defaultMaxAttempts  = 540
)

// Execution drives one mutation's token delivery and recipe wait to a
// terminal state. It is not safe for concurrent use; each mutation
// invocation owns its own Execution.
type Execution struct {
	resp      *Response
	deliverer Deliverer
	poller    RecipePoller
	opts      Options
	state     State
}

// NewExecution constructs an Execution in StateIssued. Zero option fields
// fall back to a 5-second interval and 540 attempts.
func NewExecution(resp *Response, deliverer Deliverer, poller RecipePoller, opts Options) *Execution {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	return &Execution{
		resp:      resp,
		deliverer: deliverer,
		poller:    poller,
		opts:      opts,
		state:     StateIssued,
	}
}

// State returns the execution's current state.
func (e *Execution) State() State {
	return e.state
}

// Run drives the execution until a terminal state is reached and blocks
// the caller for its whole duration. It never returns while the operation
// is still in flight.
//
// Validation errors reject the execution before any hardware action.
// Delivery is attempted for every target; per-target refusals are
// collected without blocking the remaining targets, and accepted targets
// still complete their recipe wait. The returned error joins every
// distinct fault (delivery, recipe failure, timeout) so callers can
// inspect each with errors.As.
func (e *Execution) Run(ctx context.Context, ignoreWarnings bool) error {
	if err := e.resp.Issues.Check(ignoreWarnings); err != nil {
		e.state = StateRejected
		return err
	}

	e.state = StateDelivering
	acks, deliveryErr := e.deliver(ctx)

	var waitErr error
	if pending := pendingRecipes(acks); len(pending) > 0 {
		e.state = StateAwaitingRecipe
		waitErr = e.awaitRecipes(ctx, pending)
	}

	if deliveryErr != nil || waitErr != nil {
		e.state = StateFailed
		return errors.Join(deliveryErr, waitErr)
	}
	e.state = StateCompleted
	return nil
}

// deliver dispatches the token to every target named in the response and
// collects per-target outcomes. Must-send DNS targets fall back from the
// control port to their data ports before counting as failed.
func (e *Execution) deliver(ctx context.Context) ([]*Ack, error) {
	var acks []*Ack
	var failed []TargetError

	for _, target := range e.resp.MustSendTargets {
		ack, err := e.deliverMustSend(ctx, target)
		if err != nil {
			failed = append(failed, TargetError{Target: target.ControlPortDNS, Reason: err.Error()})
			continue
		}
		acks = append(acks, ack)
	}

	for _, target := range e.resp.Targets() {
		ack, err := e.deliverer.Deliver(ctx, target, e.resp.Token)
		if err != nil {
			failed = append(failed, TargetError{Target: target, Reason: err.Error()})
			continue
		}
		acks = append(acks, ack)
	}

	if len(failed) > 0 {
		return acks, &DeliveryError{Failed: failed}
	}
	return acks, nil
}

// deliverMustSend posts the token to a mandatory target's control port,
// trying its data ports in order if the control port refuses. The
// control-port error is reported when every port fails.
func (e *Execution) deliverMustSend(ctx context.Context, target MustSendTarget) (*Ack, error) {
	ack, err := e.deliverer.Deliver(ctx, target.ControlPortDNS, e.resp.Token)
	if err == nil {
		return ack, nil
	}
	for _, dataPort := range target.DataPortDNS {
		if ack, dpErr := e.deliverer.Deliver(ctx, dataPort, e.resp.Token); dpErr == nil {
			return ack, nil
		}
	}
	return nil, err
}

// pendingRecipe pairs a recipe handle with the target that spawned it.
type pendingRecipe struct {
	target string
	ref    RecipeRef
}

// pendingRecipes expands delivery acknowledgements into the recipes that
// must be waited on. Acks without a recipe handle complete immediately.
func pendingRecipes(acks []*Ack) []pendingRecipe {
	var pending []pendingRecipe
	for _, ack := range acks {
		if ack == nil {
			continue
		}
		if ack.RecipeUUID != "" {
			pending = append(pending, pendingRecipe{target: ack.Target, ref: ack.RecipeRef})
		}
		for _, ref := range ack.Individual {
			pending = append(pending, pendingRecipe{target: ack.Target, ref: ref})
		}
	}
	return pending
}

// awaitRecipes polls every pending recipe at a fixed interval until each
// reaches a terminal state or the attempt budget is exhausted. Explicit
// remote failures and exhausted budgets are reported as distinct faults.
func (e *Execution) awaitRecipes(ctx context.Context, pending []pendingRecipe) error {
	var faults []error

	for attempt := 0; attempt < e.opts.MaxAttempts && len(pending) > 0; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(e.opts.PollInterval):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		var still []pendingRecipe
		for _, p := range pending {
			outcome, detail, err := e.poller.Poll(ctx, p.ref)
			if err != nil {
				// A failed poll is not a failed recipe. The recipe stays
				// pending and the attempt is spent; only the remote outcome
				// or budget exhaustion is terminal.
				still = append(still, p)
				continue
			}
			switch outcome {
			case OutcomeCompleted:
				// done with this target
			case OutcomeFailed:
				faults = append(faults, &RecipeError{Target: p.target, Detail: detail})
			default:
				still = append(still, p)
			}
		}
		pending = still
	}

	if len(pending) > 0 {
		targets := make([]string, len(pending))
		for i, p := range pending {
			targets[i] = p.target
		}
		faults = append(faults, &TimeoutError{Targets: targets, Attempts: e.opts.MaxAttempts})
	}

	return errors.Join(faults...)
}

// Executor runs the complete token delivery and recipe wait flow for one
// mutation invocation. Resource managers depend on this interface so the
// flow can be faked in tests.
type Executor interface {
	Execute(ctx context.Context, mutationName string, resp *Response, ignoreWarnings bool) error
}

// Engine is the default Executor. It delivers tokens through its
// Deliverer and tracks recipes through its RecipePoller using
// fixed-interval, attempt-bounded polling.
type Engine struct {
	Deliverer Deliverer
	Poller    RecipePoller
	Options   Options
}

// Compile-time interface check.
var _ Executor = (*Engine)(nil)

// Execute runs a new Execution for resp and wraps any fault with the
// mutation name.
func (g *Engine) Execute(ctx context.Context, mutationName string, resp *Response, ignoreWarnings bool) error {
	exec := NewExecution(resp, g.Deliverer, g.Poller, g.Options)
	if err := exec.Run(ctx, ignoreWarnings); err != nil {
		return fmt.Errorf("%s: %w", mutationName, err)
	}
	return nil
}
