package catalog

import "errors"

var (
	// ErrDuplicateID is returned when two catalog entries of the same kind share an id.
	ErrDuplicateID = errors.New("duplicate catalog id")

	// ErrUnknownRole is returned when a role id is not one of the enumerated roles.
	ErrUnknownRole = errors.New("unknown role")

	// ErrUnknownParent is returned when a resource references a parent that does not exist.
	ErrUnknownParent = errors.New("unknown parent resource")

	// ErrResourceCycle is returned when the parent chain of a resource loops.
	ErrResourceCycle = errors.New("resource hierarchy contains a cycle")

	// ErrUnknownReference is returned when a grant references an unknown role, resource or action.
	ErrUnknownReference = errors.New("grant references unknown id")

	// ErrInvalidMembership is returned for membership status values other than Active and Inactive.
	ErrInvalidMembership = errors.New("invalid membership status")
)
