// Package metrics exposes Prometheus instrumentation for the agent runtime.
//
// Collectors are package-level and recorded through the Record* helpers, which
// are safe to call before Init; Init registers the collectors with the default
// registry exactly once and Handler serves them over HTTP.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Message dispatch metrics
	messagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentcore_messages_total",
			Help: "Total number of messages processed by agents",
		},
		[]string{"agent", "type", "outcome"},
	)

	messageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agentcore_message_duration_seconds",
			Help:    "Message processing duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"agent"},
	)

	// Goal execution metrics
	goalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentcore_goals_total",
			Help: "Total number of goals executed by agents",
		},
		[]string{"agent", "status"},
	)

	goalDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agentcore_goal_duration_seconds",
			Help:    "Goal execution duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"agent"},
	)

	// Tool metrics
	toolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentcore_tool_calls_total",
			Help: "Total number of tool invocations",
		},
		[]string{"tool", "status"},
	)

	toolCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agentcore_tool_call_duration_seconds",
			Help:    "Tool invocation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"tool"},
	)

	// Model metrics
	modelCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentcore_model_calls_total",
			Help: "Total number of model invocations",
		},
		[]string{"model", "status"},
	)

	modelCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agentcore_model_call_duration_seconds",
			Help:    "Model invocation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)

	modelTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentcore_model_tokens_total",
			Help: "Total number of tokens consumed by model invocations",
		},
		[]string{"model", "kind"},
	)

	// Execution loop metrics
	behaviorTicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentcore_behavior_ticks_total",
			Help: "Total number of proactive behavior ticks",
		},
		[]string{"agent", "behavior", "status"},
	)

	// Planning metrics
	planFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentcore_plan_fallbacks_total",
			Help: "Total number of plans replaced by the fallback plan",
		},
		[]string{"reason"},
	)

	planStepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentcore_plan_steps_total",
			Help: "Total number of executed plan steps",
		},
		[]string{"status"},
	)

	// Lifecycle metrics
	activeAgents = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "agentcore_active_agents",
			Help: "Number of agents currently running",
		},
	)

	initOnce sync.Once
)

// Init registers all collectors with the default Prometheus registry. It is
// idempotent and safe to call from multiple goroutines.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			messagesTotal,
			messageDuration,
			goalsTotal,
			goalDuration,
			toolCallsTotal,
			toolCallDuration,
			modelCallsTotal,
			modelCallDuration,
			modelTokensTotal,
			behaviorTicksTotal,
			planFallbacksTotal,
			planStepsTotal,
			activeAgents,
		)
	})
}

// Handler returns an HTTP handler serving the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Outcome and status label values used by the runtime.
const (
	OutcomeBehavior = "behavior"
	OutcomeEngine   = "engine"
	OutcomeError    = "error"

	StatusSuccess = "success"
	StatusError   = "error"

	StepStatusSuccess   = "success"
	StepStatusError     = "error"
	StepStatusException = "exception"
	StepStatusNotFound  = "tool_not_found"
)

// RecordMessage records one processed message and its dispatch outcome.
func RecordMessage(agent, msgType, outcome string, duration time.Duration) {
	messagesTotal.WithLabelValues(agent, msgType, outcome).Inc()
	messageDuration.WithLabelValues(agent).Observe(duration.Seconds())
}

// RecordGoal records one executed goal.
func RecordGoal(agent, status string, duration time.Duration) {
	goalsTotal.WithLabelValues(agent, status).Inc()
	goalDuration.WithLabelValues(agent).Observe(duration.Seconds())
}

// RecordToolCall records one tool invocation.
func RecordToolCall(tool, status string, duration time.Duration) {
	toolCallsTotal.WithLabelValues(tool, status).Inc()
	toolCallDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// RecordModelCall records one model invocation and its token usage.
func RecordModelCall(model, status string, duration time.Duration, promptTokens, completionTokens int) {
	modelCallsTotal.WithLabelValues(model, status).Inc()
	modelCallDuration.WithLabelValues(model).Observe(duration.Seconds())

	if promptTokens > 0 {
		modelTokensTotal.WithLabelValues(model, "prompt").Add(float64(promptTokens))
	}

	if completionTokens > 0 {
		modelTokensTotal.WithLabelValues(model, "completion").Add(float64(completionTokens))
	}
}

// RecordBehaviorTick records one proactive behavior tick.
func RecordBehaviorTick(agent, behavior, status string) {
	behaviorTicksTotal.WithLabelValues(agent, behavior, status).Inc()
}

// RecordPlanFallback records a plan that was replaced by the fallback plan.
func RecordPlanFallback(reason string) {
	planFallbacksTotal.WithLabelValues(reason).Inc()
}

// RecordPlanStep records one executed plan step.
func RecordPlanStep(status string) {
	planStepsTotal.WithLabelValues(status).Inc()
}

// AgentStarted increments the running agent gauge.
func AgentStarted() {
	activeAgents.Inc()
}

// AgentStopped decrements the running agent gauge.
func AgentStopped() {
	activeAgents.Dec()
}
