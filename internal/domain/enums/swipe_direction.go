package enums

import (
	"fmt"
	"strings"
)

type SwipeDirection string

const (
	SwipeDirectionLike SwipeDirection = "LIKE"
	SwipeDirectionPass SwipeDirection = "PASS"
)

func (d SwipeDirection) Valid() bool {
	return d == SwipeDirectionLike || d == SwipeDirectionPass
}

func ParseSwipeDirection(input string) (SwipeDirection, error) {
	switch SwipeDirection(strings.ToUpper(strings.TrimSpace(input))) {
	case SwipeDirectionLike:
		return SwipeDirectionLike, nil
	case SwipeDirectionPass:
		return SwipeDirectionPass, nil
	default:
		return "", fmt.Errorf("unknown swipe direction %q", input)
	}
}
