package utils

// PositivePtr returns a pointer to v, or nil when v is zero or negative.
// Providers use it for optional sampling fields where zero means "let the
// backend decide" and must be omitted from the request body.
func PositivePtr[T ~int | ~int64 | ~float32 | ~float64](v T) *T {
	if v <= 0 {
		return nil
	}
	return &v
}
