package shell

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseIndex reads a 1-based listing number and returns the 0-based index.
func parseIndex(arg string, max int) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", arg)
	}
	if max == 0 {
		return 0, fmt.Errorf("nothing listed, run a listing command first")
	}
	if n < 1 || n > max {
		return 0, fmt.Errorf("%d is out of range (1-%d)", n, max)
	}
	return n - 1, nil
}

// parseSeekTarget reads a seek argument: "m:ss" or "h:mm:ss" absolute
// positions, plain seconds, or +s/-s relative to the current position.
func parseSeekTarget(arg string, current time.Duration) (time.Duration, error) {
	relative := time.Duration(0)
	switch {
	case strings.HasPrefix(arg, "+"):
		relative = 1
		arg = arg[1:]
	case strings.HasPrefix(arg, "-"):
		relative = -1
		arg = arg[1:]
	}

	pos, err := parseClock(arg)
	if err != nil {
		return 0, err
	}

	if relative != 0 {
		return current + relative*pos, nil
	}
	return pos, nil
}

func parseClock(arg string) (time.Duration, error) {
	parts := strings.Split(arg, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%q is not a position", arg)
	}

	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%q is not a position", arg)
		}
		total = total*60 + n
	}
	return time.Duration(total) * time.Second, nil
}
