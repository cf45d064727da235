// Package prediction implements the pure, deterministic-given-a-seeded-RNG
// oracle the dispatch strategy consults for prep time, travel time, and
// offer acceptance probability. Every function takes its randomness as an
// explicit *rand.Rand parameter so a simulation run is reproducible from
// (config, seed) alone.
package prediction
