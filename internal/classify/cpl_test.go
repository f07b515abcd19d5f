package classify

import "testing"

func TestCPL_ExactBestMoveIsZero(t *testing.T) {
	got := CPL(CPLInputs{PlayedMatchesBest: true, White: true})
	if got != 0 {
		t.Errorf("CPL() = %d, want 0", got)
	}
}

func TestCPL_PlainSignedLoss_White(t *testing.T) {
	// scenario 2 of spec.md §8: pre +150, played post -200, best post +145.
	in := CPLInputs{
		White:             true,
		BestPostEvalKnown: true,
		EvalBefore:        CpScore(150),
		EvalAfterBest:     CpScore(145),
		EvalAfterPlayed:   CpScore(-200),
	}
	got := CPL(in)
	want := 345
	if got != want {
		t.Errorf("CPL() = %d, want %d", got, want)
	}
}

func TestCPL_NeverNegative(t *testing.T) {
	in := CPLInputs{
		White:             true,
		BestPostEvalKnown: true,
		EvalAfterBest:     CpScore(0),
		EvalAfterPlayed:   CpScore(50), // played better than "best" somehow
	}
	if got := CPL(in); got != 0 {
		t.Errorf("CPL() = %d, want 0 (clamped)", got)
	}
}

func TestCPL_BeforeVsAfterFallback(t *testing.T) {
	in := CPLInputs{
		White:           true,
		EvalBefore:      CpScore(100),
		EvalAfterPlayed: CpScore(40),
	}
	if got := CPL(in); got != 60 {
		t.Errorf("CPL() = %d, want 60", got)
	}
}

func TestCPL_MateTable_DeliveredMateIsFree(t *testing.T) {
	// scenario 4: played post-state is mate 0, opponent to move is mated
	// so the mover (white) wins.
	in := CPLInputs{
		White:             true,
		BestPostEvalKnown: false,
		EvalBefore:        CpScore(300),
		EvalAfterPlayed:   MateScore(0),
	}
	if got := CPL(in); got != 0 {
		t.Errorf("CPL() = %d, want 0 for delivered mate", got)
	}
}

func TestCPL_MateTable_OnlyPostMate_Punished(t *testing.T) {
	// White blunders into getting mated: after is mate favouring black.
	in := CPLInputs{
		White:           true,
		EvalBefore:      CpScore(100),
		EvalAfterPlayed: MateScore(-3),
	}
	got := CPL(in)
	if got <= 0 {
		t.Errorf("CPL() = %d, want > 0 (opponent mate is a blunder)", got)
	}
}

func TestCPL_MateTable_BothMateSameSide_FasterIsBetter(t *testing.T) {
	in := CPLInputs{
		White:             true,
		BestPostEvalKnown: true,
		EvalBefore:        MateScore(2), // mate in 2 for white before the move
		EvalAfterBest:     MateScore(2), // mate in 2 for white
		EvalAfterPlayed:   MateScore(4), // mate in 4 for white (slower)
	}
	got := CPL(in)
	if got <= 0 {
		t.Errorf("CPL() = %d, want > 0 for delaying own mate", got)
	}
}

func TestCPL_MateTable_BothMateSameSide_FasterMoverWins(t *testing.T) {
	in := CPLInputs{
		White:             true,
		BestPostEvalKnown: true,
		EvalAfterBest:     MateScore(4),
		EvalAfterPlayed:   MateScore(2),
	}
	if got := CPL(in); got != 0 {
		t.Errorf("CPL() = %d, want 0 (mating faster than best is not a loss)", got)
	}
}

func TestPVCPL(t *testing.T) {
	if got := PVCPL(true, 100, 60); got != 40 {
		t.Errorf("PVCPL() = %d, want 40", got)
	}
	if got := PVCPL(false, -100, -60); got != 40 {
		t.Errorf("PVCPL() (black) = %d, want 40", got)
	}
}

func TestNormalizeMove(t *testing.T) {
	cases := []struct{ a, b string }{
		{"Nf3+", "nf3"},
		{"Qxh7#", "qxh7"},
		{" e4 ", "e4"},
	}
	for _, c := range cases {
		if !MovesMatch(c.a, c.b) {
			t.Errorf("MovesMatch(%q, %q) = false, want true", c.a, c.b)
		}
	}
}
