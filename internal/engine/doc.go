// ABOUTME: Package engine holds the personalization and recommendation rules.
// ABOUTME: Every function is pure; callers persist whatever it returns.

// Package engine turns a profile snapshot and its training history into a
// workout plan, daily nutrition targets and difficulty adjustments, and
// reduces logged food into daily totals.
//
// Nothing here performs I/O or keeps state between calls, so functions may be
// called concurrently for different profiles. Missing or unrecognized profile
// fields resolve to the defaults declared in package models; only structurally
// invalid input (negative quantities, malformed catalog records) is rejected,
// with a *ValidationError naming the field.
package engine
