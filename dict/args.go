package dict

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrMissingArgument = errors.New("no N given")
	ErrInvalidArgument = errors.New("N should be a non-negative integer")
)

// ParseCount reads the record count N from the first positional argument.
// Extra arguments are ignored.
func ParseCount(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrMissingArgument
	}

	s := strings.TrimSpace(args[0])
	n, err := strconv.Atoi(s)
	// "-0" is rejected too
	if err != nil || n < 0 || strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("%w, got '%s'", ErrInvalidArgument, args[0])
	}
	return n, nil
}
