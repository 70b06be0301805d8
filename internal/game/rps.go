package game

import "github.com/tmavroeid/rockpaperscissors-game/internal/domain"

// Decide computes the outcome of one round from player one's and player
// two's hands. Rock beats scissors, scissors beats paper, paper beats rock.
// Equal hands tie. Callers must pass valid choices; anything else yields
// OutcomeNone.
func Decide(one, two domain.Choice) domain.Outcome {
	if !one.Valid() || !two.Valid() {
		return domain.OutcomeNone
	}
	if one == two {
		return domain.OutcomeTie
	}
	if Beats(one, two) {
		return domain.OutcomePlayerOneWins
	}
	return domain.OutcomePlayerTwoWins
}

// Beats reports whether a defeats b.
func Beats(a, b domain.Choice) bool {
	switch a {
	case domain.ChoiceRock:
		return b == domain.ChoiceScissors
	case domain.ChoicePaper:
		return b == domain.ChoiceRock
	case domain.ChoiceScissors:
		return b == domain.ChoicePaper
	}
	return false
}
