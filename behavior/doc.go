// Package behavior defines the pluggable units of agent functionality.
//
// A behavior is both reactive and proactive: CanHandle/Process let it claim
// and answer inbound messages, while Tick gives it a slice of every execution
// loop cycle for background work. Agents dispatch messages through their
// behaviors in registration order and fall back to the decision engine when
// no behavior produces a reply.
//
// BaseBehavior covers the boilerplate for custom implementations.
// FunctionBehavior builds a behavior from closures, and ScheduledBehavior
// runs a task on a cron schedule.
package behavior
