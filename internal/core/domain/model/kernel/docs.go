// Package kernel contains shared value objects used across all domain
// aggregates. These types carry no business rules of their own; they exist to
// give identifiers and other primitives validated, immutable representations.
package kernel
