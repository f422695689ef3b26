// Package rng provides the deterministic pseudo-random number generator
// that backs every probabilistic roll in the simulation core.
//
// # Overview
//
// RNG is a SplitMix32-derived mixer: a single uint32 state advanced by a
// golden-ratio increment and scrambled through three xor-shift/multiply
// rounds. It replaces any platform random() call so that a given seed
// produces the identical output sequence on every platform and every
// build.
//
// # Per-roll seeding
//
// The interaction pipeline never reuses one long-lived RNG instance across
// rolls. Instead, each roll derives a fresh seed purely from
// (world seed, tick, actor, target):
//
//	seed = worldSeed XOR tick XOR (actor * mixActor) XOR (target * mixTarget)
//
// This makes every roll a pure function of that 4-tuple, which is what
// makes replay and property testing of the interaction pipeline possible:
// re-running the same tuple against the same store state always produces
// the same result code and the same emitted commands.
//
// # Bias
//
// Range and D100 use modulo reduction, which is slightly biased toward
// smaller outputs for ranges that don't evenly divide 2^32. This is an
// accepted tradeoff for gameplay rolls, not a correctness defect; see the
// distribution sanity test in rng_test.go.
package rng
