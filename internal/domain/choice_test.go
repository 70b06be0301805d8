package domain

import "testing"

func TestParseChoice(t *testing.T) {
	cases := []struct {
		in      string
		want    Choice
		wantErr bool
	}{
		{"rock", ChoiceRock, false},
		{"Paper", ChoicePaper, false},
		{" scissors ", ChoiceScissors, false},
		{"1", ChoiceRock, false},
		{"2", ChoicePaper, false},
		{"3", ChoiceScissors, false},
		{"0", ChoiceNone, true},
		{"4", ChoiceNone, true},
		{"lizard", ChoiceNone, true},
		{"", ChoiceNone, true},
	}

	for _, tc := range cases {
		got, err := ParseChoice(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParseChoice(%q) err = %v; wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Fatalf("ParseChoice(%q) = %v; want %v", tc.in, got, tc.want)
		}
	}
}

func TestGameSettled(t *testing.T) {
	g := &Game{Status: GameStatusPlayerTwoCommitted}
	if g.Settled() {
		t.Fatal("unresolved game reported settled")
	}

	g.Status = GameStatusResolved
	g.Outcome = OutcomePlayerOneWins
	if g.Settled() {
		t.Fatal("decisive game settled before withdrawal")
	}

	g.Withdrawn = true
	if !g.Settled() {
		t.Fatal("withdrawn game not settled")
	}

	tie := &Game{Status: GameStatusResolved, Outcome: OutcomeTie}
	if !tie.Settled() {
		t.Fatal("tie should settle at resolution")
	}
}

func TestGameResultFor(t *testing.T) {
	g := &Game{
		PlayerOne: "alice",
		PlayerTwo: "bob",
		Status:    GameStatusResolved,
		Outcome:   OutcomePlayerTwoWins,
		Winner:    "bob",
	}
	if got := g.ResultFor("bob"); got != GameResultWin {
		t.Fatalf("bob: got %s", got)
	}
	if got := g.ResultFor("alice"); got != GameResultLose {
		t.Fatalf("alice: got %s", got)
	}
	if got := g.OpponentOf("alice"); got != "bob" {
		t.Fatalf("opponent of alice = %q", got)
	}
	if g.OpponentOf("carol") != "" {
		t.Fatal("carol has no opponent")
	}
}
