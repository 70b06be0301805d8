package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Choice is a rock-paper-scissors hand. Numbering matches the wire format
// used by clients: 1 rock, 2 paper, 3 scissors.
type Choice uint8

const (
	ChoiceNone     Choice = 0
	ChoiceRock     Choice = 1
	ChoicePaper    Choice = 2
	ChoiceScissors Choice = 3
)

// Valid reports whether c is one of rock, paper or scissors.
func (c Choice) Valid() bool {
	return c >= ChoiceRock && c <= ChoiceScissors
}

func (c Choice) String() string {
	switch c {
	case ChoiceRock:
		return "rock"
	case ChoicePaper:
		return "paper"
	case ChoiceScissors:
		return "scissors"
	default:
		return ""
	}
}

// ParseChoice accepts either the name ("rock", "Paper") or the number ("1").
func ParseChoice(s string) (Choice, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "rock":
		return ChoiceRock, nil
	case "paper":
		return ChoicePaper, nil
	case "scissors":
		return ChoiceScissors, nil
	}

	n, err := strconv.ParseUint(s, 10, 8)
	if err == nil && Choice(n).Valid() {
		return Choice(n), nil
	}
	return ChoiceNone, fmt.Errorf("invalid choice %q", s)
}

func (c Choice) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Choice) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*c = ChoiceNone
		return nil
	}
	parsed, err := ParseChoice(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
