// Package structured drives a text generator until it returns a JSON value of
// the expected shape.
//
// An [Orchestrator] sends a prompt, extracts JSON from the reply with
// core/parse and checks its top-level shape. Extraction and shape failures
// make the next attempt stricter by applying one more escalation clause;
// transport failures retry the same prompt. The number of generator calls
// never exceeds the configured budget.
//
// Domain validation is left to the caller: the orchestrator only guarantees
// a non-empty object or array.
package structured
