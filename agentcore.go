// Package agentcore provides a high-level façade over the agent runtime and
// its services (engine, memory, runner & logging) enabling rapid construction
// of autonomous agent systems. Most applications interact with this package
// by:
//  1. Creating an AgentCore via New() (optionally overriding the model, engine or logger)
//  2. Creating one or more agents via NewAgent (attaching behaviors and tools)
//  3. Starting the fleet (StartAll) and sending messages or goals to named agents
//
// The façade delegates coordination to runner.Runner while keeping setup and
// usage ergonomics concise. All defaults are safe for local development and
// testing: without a model or engine override the façade falls back to a
// mock model. Production deployments supply a real model adapter and a
// structured logger, and can keep the fleet's runtime configuration in sync
// with a YAML file on disk via WatchConfig.
package agentcore

import (
	"context"
	"sync"

	"github.com/hupe1980/agentcore/agent"
	"github.com/hupe1980/agentcore/config"
	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/engine"
	"github.com/hupe1980/agentcore/logging"
	"github.com/hupe1980/agentcore/model"
	"github.com/hupe1980/agentcore/runner"
)

// Options configures the AgentCore instance.
type Options struct {
	// Config is the runtime configuration applied to agents created through
	// the façade. Individual agents can override it at creation time.
	Config config.AgentConfig

	// Model is the language model backing the default decision engine.
	// Ignored when Engine is set; a mock model is used when both are nil.
	Model model.Model

	// Engine overrides the decision engine shared by agents created through
	// the façade.
	Engine engine.Engine

	// Logger (defaults to slog when the config enables logging, otherwise to
	// a no-op logger)
	Logger logging.Logger
}

// AgentCore is the high-level façade aggregating the decision engine and the
// agent fleet.
type AgentCore struct {
	mu     sync.RWMutex
	config config.AgentConfig
	engine engine.Engine
	logger logging.Logger
	runner *runner.Runner
}

// New creates a new AgentCore instance with optional overrides. Any unset
// service is initialized with a local implementation.
func New(optFns ...func(o *Options)) *AgentCore {
	opts := Options{
		Config: config.DefaultAgentConfig(),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		if opts.Config.EnableLogging {
			opts.Logger = logging.NewDefaultSlogLogger()
		} else {
			opts.Logger = logging.NoOpLogger{}
		}
	}

	eng := opts.Engine
	if eng == nil {
		m := opts.Model
		if m == nil {
			m = model.NewMockModel("mock", "mock")
		}

		eng = engine.NewAIEngine(m, func(o *engine.AIEngineOptions) {
			o.Logger = opts.Logger
		})
	}

	r := runner.New(func(o *runner.Options) {
		o.Logger = opts.Logger
	})

	return &AgentCore{
		config: opts.Config,
		engine: eng,
		logger: opts.Logger,
		runner: r,
	}
}

// NewAgent creates an agent wired to the façade's engine, configuration and
// logger, registers it with the runner and returns it. Per-agent overrides
// are applied on top of the façade defaults. Registration fails on duplicate
// names.
func (c *AgentCore) NewAgent(name string, optFns ...func(o *agent.Options)) (*agent.Agent, error) {
	c.mu.RLock()
	cfg := c.config
	c.mu.RUnlock()

	fns := append([]func(o *agent.Options){func(o *agent.Options) {
		o.Config = cfg
		o.Logger = c.logger
	}}, optFns...)

	a := agent.New(name, c.engine, fns...)

	if err := c.runner.Register(a); err != nil {
		return nil, err
	}

	return a, nil
}

// Agent returns the registered agent with the given name.
func (c *AgentCore) Agent(name string) (*agent.Agent, bool) {
	return c.runner.Agent(name)
}

// Runner exposes the underlying fleet coordinator for advanced wiring.
func (c *AgentCore) Runner() *runner.Runner {
	return c.runner
}

// ApplyConfig swaps the runtime configuration of every registered agent and
// makes cfg the default for agents created afterwards. Running agents pick
// up the change on their next execution cycle.
func (c *AgentCore) ApplyConfig(cfg config.AgentConfig) {
	c.mu.Lock()
	c.config = cfg
	c.mu.Unlock()

	for _, a := range c.runner.Agents() {
		a.UpdateConfig(cfg)
	}
}

// WatchConfig loads the configuration file at path and keeps the fleet's
// runtime section in sync with it until ctx is canceled. The agent section of
// the file is applied immediately and again after every successful reload.
// The returned watcher can be stopped early via its Stop method.
func (c *AgentCore) WatchConfig(ctx context.Context, path string, opts ...config.WatcherOption) (*config.Watcher, error) {
	opts = append([]config.WatcherOption{config.WithWatchLogger(c.logger)}, opts...)

	watcher, cfg, err := config.WatchConfig(ctx, path, opts...)
	if err != nil {
		return nil, err
	}

	c.ApplyConfig(cfg.Agent)

	watcher.OnChange(func(cfg *config.Config) {
		c.ApplyConfig(cfg.Agent)
	})

	return watcher, nil
}

// StartAll starts every agent created through the façade.
func (c *AgentCore) StartAll(ctx context.Context) error {
	return c.runner.StartAll(ctx)
}

// StopAll stops every agent created through the façade.
func (c *AgentCore) StopAll(ctx context.Context) error {
	return c.runner.StopAll(ctx)
}

// ProcessMessage routes a message to the named agent and returns the reply
// future.
func (c *AgentCore) ProcessMessage(ctx context.Context, agentName string, msg core.Message) *core.Future[core.Message] {
	return c.runner.Route(ctx, agentName, msg)
}

// ExecuteGoal hands a goal to the named agent and returns the execution log
// future.
func (c *AgentCore) ExecuteGoal(ctx context.Context, agentName, goal string) *core.Future[string] {
	return c.runner.ExecuteGoal(ctx, agentName, goal)
}
