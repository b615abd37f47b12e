package domain

// Patch is a single field of an update request. The zero value means
// "leave unchanged"; Set marks the field for replacement, including with
// the zero value of T.
type Patch[T any] struct {
	value T
	set   bool
}

// Set returns a Patch that replaces the current value with v.
func Set[T any](v T) Patch[T] {
	return Patch[T]{value: v, set: true}
}

// Unchanged returns a Patch that keeps the current value.
func Unchanged[T any]() Patch[T] {
	return Patch[T]{}
}

// IsSet reports whether the patch replaces the current value.
func (p Patch[T]) IsSet() bool { return p.set }

// Get returns the replacement value and whether one was set.
func (p Patch[T]) Get() (T, bool) { return p.value, p.set }

// Apply returns the replacement value if set, otherwise current.
func (p Patch[T]) Apply(current T) T {
	if p.set {
		return p.value
	}
	return current
}
