package optimizer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrBadCostPattern = errors.New("invalid cost pattern")

// CostPattern is the cost tier of each of the 5 echo slots, e.g. 4-3-3-1-1.
type CostPattern [5]int

func ParseCostPattern(s string) (CostPattern, error) {
	var p CostPattern
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != len(p) {
		return p, fmt.Errorf("%w %q: expected 5 costs separated by '-'", ErrBadCostPattern, s)
	}
	for i, part := range parts {
		c, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return p, fmt.Errorf("%w %q: %v", ErrBadCostPattern, s, err)
		}
		if c <= 0 {
			return p, fmt.Errorf("%w %q: cost must be positive", ErrBadCostPattern, s)
		}
		p[i] = c
	}
	return p, nil
}

func (p CostPattern) String() string {
	parts := make([]string, len(p))
	for i, c := range p {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, "-")
}

// Count returns how many slots use each cost.
func (p CostPattern) Count() map[int]int {
	out := map[int]int{}
	for _, c := range p {
		out[c]++
	}
	return out
}
