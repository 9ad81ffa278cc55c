// Package engine implements the decision-making layer of the agent runtime.
//
// The Engine interface covers four operations: answering messages no
// behavior claimed (ProcessMessage), turning natural-language goals into
// execution plans (CreatePlan), running those plans against registered tools
// (ExecuteGoal) and ranking options against criteria (ChooseBest). AIEngine
// is the model-backed implementation; any collaborator satisfying the
// interface can replace it.
//
// # Degradation contract
//
// The engine sits on the agent's message path, so it must never turn a model
// hiccup into a caller-visible failure. Every operation degrades instead of
// erroring:
//
//   - ProcessMessage falls back to a fixed apology reply.
//   - CreatePlan falls back to a single-step plan handing the whole goal to
//     the first registered tool (confidence 0.5), or an empty plan when no
//     tools exist.
//   - ChooseBest falls back to the first option.
//
// The only hard failure is structural: ChooseBest with zero options returns
// a CodeInvalidArgument error.
//
// # Planning
//
// CreatePlan prompts the model at low temperature for a JSON plan of the
// shape {steps, estimatedTime, confidence}. ParsePlan is deliberately
// forgiving: it strips prose around the outermost JSON object, skips steps
// that fail to decode and substitutes defaults for missing fields. Plans are
// value objects; StepExecutor runs them strictly in order, converting every
// per-step failure mode into a log line rather than an abort:
//
//	Tool not found: <tool>
//	✓ <action> -> <data>
//	✗ <action> -> ERROR: <error>
//	✗ <action> -> EXCEPTION: <panic or transport failure>
//
// The newline-joined log is the goal result handed back to the caller.
//
// # Prompts
//
// All prompts are Go text templates and can be replaced per engine through
// AIEngineOptions.Templates; the built-in defaults live next to the engine
// and are returned by DefaultPromptTemplates.
package engine
