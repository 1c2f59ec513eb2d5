// Package staff contains the minimal staff model the dispatch subsystem
// needs: enough to check that a manual assignment targets an actual driver.
// Staff administration itself lives outside this subsystem.
package staff

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrStaffIsNotConstructed is returned when a Staff was not created through
// NewStaff or RestoreStaff.
var ErrStaffIsNotConstructed = errors.New("Staff must be created via NewStaff or RestoreStaff")

// Role is a staff member's function in the store.
type Role string

const (
	RoleDriver    Role = "driver"
	RoleInventory Role = "inventory"
	RoleManager   Role = "manager"
)

// Validate checks that the role is one of the known functions.
func (r Role) Validate() error {
	if r != RoleDriver && r != RoleInventory && r != RoleManager {
		return errs.NewValueIsInvalidErrorWithCause("role",
			fmt.Errorf("%q is not a valid role", string(r)))
	}
	return nil
}

// Staff is a store employee. Only drivers may be assigned orders.
type Staff struct {
	id   kernel.UUID
	name string
	role Role

	isConstructed bool
}

// NewStaff creates a validated staff member.
func NewStaff(id kernel.UUID, name string, role Role) (*Staff, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}
	if err := role.Validate(); err != nil {
		return nil, err
	}

	return &Staff{id: id, name: name, role: role, isConstructed: true}, nil
}

// RestoreStaff rebuilds a staff member from persistence.
func RestoreStaff(id kernel.UUID, name string, role Role) (*Staff, error) {
	return NewStaff(id, name, role)
}

// Validate ensures the Staff was properly constructed.
func (s *Staff) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrStaffIsNotConstructed
	}
	return nil
}

// ID returns the staff member's identifier.
func (s *Staff) ID() kernel.UUID {
	return s.id
}

// Name returns the staff member's name.
func (s *Staff) Name() string {
	return s.name
}

// Role returns the staff member's role.
func (s *Staff) Role() Role {
	return s.role
}

// IsDriver reports whether the staff member can be assigned deliveries.
func (s *Staff) IsDriver() bool {
	return s.role == RoleDriver
}
