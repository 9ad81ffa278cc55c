package runner

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/agentcore/agent"
	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/logging"
)

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// Logger receives coordination logs.
	Logger logging.Logger
}

// Runner coordinates a fleet of agents in a single process: it registers
// agents under their names, starts and stops them as a group, and routes
// messages and goals to individual agents. Public methods are safe for
// concurrent use.
type Runner struct {
	logger logging.Logger

	mu     sync.RWMutex
	agents map[string]*agent.Agent
	order  []string
}

// New constructs a Runner with optional overrides.
func New(optFns ...func(o *Options)) *Runner {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Runner{
		logger: opts.Logger,
		agents: make(map[string]*agent.Agent),
	}
}

// Register adds an agent under its name. Names must be unique within the
// runner and non-empty.
func (r *Runner) Register(a *agent.Agent) error {
	name := a.Name()
	if name == "" {
		return core.NewError(core.CodeInvalidArgument, "agent name must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.agents[name]; exists {
		return core.NewErrorf(core.CodeInvalidArgument, "agent %s already registered", name)
	}

	r.agents[name] = a
	r.order = append(r.order, name)

	r.logger.Debug("agent registered", "agent", name, "id", a.ID())

	return nil
}

// Deregister removes the named agent from the runner and reports whether it
// was registered. The agent is not stopped; lifecycle stays with the caller.
func (r *Runner) Deregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.agents[name]; !exists {
		return false
	}

	delete(r.agents, name)

	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)

			break
		}
	}

	r.logger.Debug("agent deregistered", "agent", name)

	return true
}

// Agent returns the registered agent with the given name.
func (r *Runner) Agent(name string) (*agent.Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.agents[name]

	return a, ok
}

// Names returns the registered agent names in registration order.
func (r *Runner) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)

	return names
}

// Agents returns the registered agents in registration order.
func (r *Runner) Agents() []*agent.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agents := make([]*agent.Agent, 0, len(r.order))
	for _, name := range r.order {
		agents = append(agents, r.agents[name])
	}

	return agents
}

// StartAll starts every registered agent concurrently and waits for all
// startups to settle. The first failure is returned; remaining agents still
// complete their startup attempts.
func (r *Runner) StartAll(ctx context.Context) error {
	r.logger.Info("starting all agents", "count", len(r.Names()))

	var g errgroup.Group

	for _, a := range r.Agents() {
		a := a
		g.Go(func() error {
			if _, err := a.Start().Wait(ctx); err != nil {
				return fmt.Errorf("failed to start agent %s: %w", a.Name(), err)
			}

			return nil
		})
	}

	return g.Wait()
}

// StopAll stops every registered agent concurrently and waits for all
// shutdowns to settle. Agents that are not running are skipped silently. The
// first failure is returned; remaining agents still complete their shutdown
// attempts.
func (r *Runner) StopAll(ctx context.Context) error {
	r.logger.Info("stopping all agents", "count", len(r.Names()))

	var g errgroup.Group

	for _, a := range r.Agents() {
		a := a
		g.Go(func() error {
			if _, err := a.Stop().Wait(ctx); err != nil {
				return fmt.Errorf("failed to stop agent %s: %w", a.Name(), err)
			}

			return nil
		})
	}

	return g.Wait()
}

// Route dispatches a message to the named agent and returns the agent's
// reply future. An unknown name yields a rejected future.
func (r *Runner) Route(ctx context.Context, name string, msg core.Message) *core.Future[core.Message] {
	a, ok := r.Agent(name)
	if !ok {
		return core.Rejected[core.Message](core.NewErrorf(core.CodeInvalidArgument, "no agent registered with name %s", name))
	}

	return a.ProcessMessage(ctx, msg)
}

// ExecuteGoal hands a goal to the named agent and returns the execution log
// future. An unknown name yields a rejected future.
func (r *Runner) ExecuteGoal(ctx context.Context, name, goal string) *core.Future[string] {
	a, ok := r.Agent(name)
	if !ok {
		return core.Rejected[string](core.NewErrorf(core.CodeInvalidArgument, "no agent registered with name %s", name))
	}

	return a.ExecuteGoal(ctx, goal)
}
