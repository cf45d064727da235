// Package dispatch implements the pluggable dispatch strategy interface,
// the default multi-factor scorer, the batching planner, and the
// offer/accept/decline protocol state machine.
package dispatch
