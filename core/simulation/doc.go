// Package simulation is the discrete-event scheduler (spec §4.7): a
// monotonic simulated-time clock, a priority queue of model.Event ordered
// by (at_time, insertion_seq), and the step loop that drives order
// generation, the offer/accept/decline cascade, batch-route scheduling,
// location ticks, and delivery completion against the Asset Registry,
// Order Book, and metrics summary.
//
// Grounded on _examples/original_source/src/simulation_engine.py, whose
// heapq-based SimulationEngine.run() is the direct model for Engine.Run,
// translated into Go's container/heap plus the teacher's explicit-error,
// no-panics style.
package simulation
