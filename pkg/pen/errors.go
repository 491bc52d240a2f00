package pen

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument marks a constructor or render parameter that is absent
// or outside its legal range. Check with errors.Is.
var ErrInvalidArgument = errors.New("pen: invalid argument")

// ErrPickerContract marks a picker that returned an index outside
// [0, max(n, 1)). The render aborts instead of clamping; clamping would
// skew the sampling distribution.
var ErrPickerContract = errors.New("pen: picker contract violation")

func errInvalid(param, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidArgument, param, reason)
}

func errPicker(bound, got int) error {
	return fmt.Errorf("%w: want [0,%d), got %d", ErrPickerContract, bound, got)
}
