package errorx

import "fmt"

// Wrap annotates err with the operation that produced it. Returns nil for a
// nil err so callers can wrap unconditionally.
func Wrap(err error, op string) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s: %w", op, err)
}
