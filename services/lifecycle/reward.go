package lifecycle

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"helpexchange/model"
)

var ErrInvalidReward = errors.New("invalid reward")

// ParseReward accepts whole numbers of points between MinReward and MaxReward.
func ParseReward(s string) (int, error) {
	r, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number", ErrInvalidReward, s)
	}
	if r < model.MinReward || r > model.MaxReward {
		return 0, fmt.Errorf("%w: %d is outside %d-%d", ErrInvalidReward, r, model.MinReward, model.MaxReward)
	}
	return r, nil
}
