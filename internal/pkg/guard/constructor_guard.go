// Package guard provides a small helper for enforcing constructor usage
// on value objects and commands. Embedding a ConstructorGuard as a private
// field makes the zero value of the enclosing type detectably invalid.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the guard is a zero
// value and the caller did not supply its own error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as having been built through its constructor.
// The zero value is invalid; NewConstructorGuard produces a valid guard.
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard in the constructed state.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil when the guard was created via NewConstructorGuard.
// For a zero-value guard it returns customErr, or ErrDefaultConstructorGuard
// when customErr is nil.
func (g ConstructorGuard) Validate(customErr error) error {
	if g.isConstructed {
		return nil
	}
	if customErr != nil {
		return customErr
	}
	return ErrDefaultConstructorGuard
}
