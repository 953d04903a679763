// Package taskquery filters and orders task lists for display.
//
// FilterAndSort is pure: it never mutates its input and always returns a
// non-nil slice. Incomplete tasks sort before completed ones, then by
// priority rank, with ties kept in input order.
package taskquery
