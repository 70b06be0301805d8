package game

import (
	"testing"

	"github.com/tmavroeid/rockpaperscissors-game/internal/domain"
)

func TestDecide(t *testing.T) {
	cases := []struct {
		one, two domain.Choice
		want     domain.Outcome
	}{
		{domain.ChoicePaper, domain.ChoiceRock, domain.OutcomePlayerOneWins},
		{domain.ChoiceRock, domain.ChoiceRock, domain.OutcomeTie},
		{domain.ChoiceScissors, domain.ChoicePaper, domain.OutcomePlayerOneWins},
		{domain.ChoiceRock, domain.ChoiceScissors, domain.OutcomePlayerOneWins},
		{domain.ChoiceRock, domain.ChoicePaper, domain.OutcomePlayerTwoWins},
		{domain.ChoicePaper, domain.ChoiceScissors, domain.OutcomePlayerTwoWins},
		{domain.ChoiceScissors, domain.ChoiceRock, domain.OutcomePlayerTwoWins},
		{domain.ChoicePaper, domain.ChoicePaper, domain.OutcomeTie},
		{domain.ChoiceScissors, domain.ChoiceScissors, domain.OutcomeTie},
		{domain.ChoiceNone, domain.ChoiceRock, domain.OutcomeNone},
	}

	for _, tc := range cases {
		if got := Decide(tc.one, tc.two); got != tc.want {
			t.Fatalf("Decide(%s,%s) = %s; want %s", tc.one, tc.two, got, tc.want)
		}
	}
}

func TestDecideIsAntisymmetric(t *testing.T) {
	hands := []domain.Choice{domain.ChoiceRock, domain.ChoicePaper, domain.ChoiceScissors}
	for _, a := range hands {
		for _, b := range hands {
			ab, ba := Decide(a, b), Decide(b, a)
			switch ab {
			case domain.OutcomeTie:
				if ba != domain.OutcomeTie {
					t.Fatalf("%s/%s tie but reverse is %s", a, b, ba)
				}
			case domain.OutcomePlayerOneWins:
				if ba != domain.OutcomePlayerTwoWins {
					t.Fatalf("%s beats %s but reverse is %s", a, b, ba)
				}
			}
		}
	}
}
