package conv

// Pointer returns a pointer to a copy of value, for optional protocol fields.
func Pointer[T any](value T) *T {
	return &value
}

// Dereference returns the value behind ptr, or the zero value for nil.
func Dereference[T any](ptr *T) (ret T) {
	if ptr != nil {
		ret = *ptr
	}
	return ret
}
