// Package monitor synthesizes observation monitors from ordered signal lists.
//
// A monitor is a template that walks a chain of locations, one step per
// expected observation, and ends in a terminal location ("pass" by
// default). Variants add trap locations:
//
//   - Chain: the plain chain.
//   - StrictChain: one trap per step, entered when the expected signal
//     arrives outside its timing window.
//   - AllPatterns: one trap per unexpected alphabet signal per step.
//   - Input: the generator-side chain, terminal "Finish", optional traps
//     without synchronisation.
//   - SignalConverter: a hub that renames observed signals.
//
// # Id allocation
//
// Each synthesizer allocates ids deterministically from base upward and
// never reuses an id within one call. The *Size functions report how many
// ids a call consumes. When several monitors share one document, reserve
// their ranges from a single Allocator (or let a Composer do it) so ranges
// never overlap.
//
// # Layout
//
// Step i sits at x = 300·i, y = 200. Strict traps sit at y = -200 and
// all-patterns traps at y = 500 + 100·j. Coordinates are cosmetic but
// stable, so output is byte-for-byte reproducible.
package monitor
