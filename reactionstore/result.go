package reactionstore

// Result is the outcome of one storage call.
//
// It is built with Ok, Err, or Truncated. Truncated is used by sequence reads that
// failed after some elements were already decoded: the value holds that prefix.
type Result[T any] struct {
	value     T
	err       error
	truncated bool
}

// Ok builds a successful Result.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Err builds a failed Result without a usable value.
func Err[T any](cause error) Result[T] {
	return Result[T]{err: cause}
}

// Truncated builds a failed Result that keeps the value produced before the failure.
func Truncated[T any](prefix T, cause error) Result[T] {
	return Result[T]{value: prefix, err: cause, truncated: true}
}

// Get returns the value and the error.
func (r Result[T]) Get() (T, error) {
	return r.value, r.err
}

// IsOk reports whether the storage call succeeded.
func (r Result[T]) IsOk() bool {
	return r.err == nil
}

// IsTruncated reports whether the Result holds a partial value next to its error.
func (r Result[T]) IsTruncated() bool {
	return r.truncated
}

// Cause returns the error of a failed Result, nil otherwise.
func (r Result[T]) Cause() error {
	return r.err
}

// OrDefault returns the value of a successful Result.
//
// For a failed Result it calls record with the cause and returns the truncated prefix
// if there is one, fallback otherwise.
func (r Result[T]) OrDefault(fallback T, record func(cause error)) T {
	if r.err == nil {
		return r.value
	}

	if record != nil {
		record(r.err)
	}

	if r.truncated {
		return r.value
	}

	return fallback
}
