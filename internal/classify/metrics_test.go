package classify

import "testing"

func TestACPLAndAccuracy(t *testing.T) {
	moves := []MoveRecord{
		{White: true, CentipawnLoss: 0},
		{White: true, CentipawnLoss: 100},
		{White: false, CentipawnLoss: 50},
	}

	if got := ACPL(moves, true); got != 50 {
		t.Errorf("ACPL(white) = %v, want 50", got)
	}
	if got := ACPL(moves, false); got != 50 {
		t.Errorf("ACPL(black) = %v, want 50", got)
	}

	acc := Accuracy(moves, true)
	if acc <= 0 || acc >= 100 {
		t.Errorf("Accuracy(white) = %v, want in (0, 100)", acc)
	}
}

func TestAccuracy_NoMovesIsPerfect(t *testing.T) {
	if got := Accuracy(nil, true); got != 100 {
		t.Errorf("Accuracy(nil) = %v, want 100", got)
	}
}

func TestT1Accuracy_ZeroACPLIsPerfect(t *testing.T) {
	if got := T1Accuracy(0); got != 100 {
		t.Errorf("T1Accuracy(0) = %v, want 100", got)
	}
}

func TestEvalToWinProbability_Monotone(t *testing.T) {
	low := EvalToWinProbability(-200)
	mid := EvalToWinProbability(0)
	high := EvalToWinProbability(200)
	if !(low < mid && mid < high) {
		t.Errorf("EvalToWinProbability not monotone: %v, %v, %v", low, mid, high)
	}
	if mid != 0.5 {
		t.Errorf("EvalToWinProbability(0) = %v, want 0.5", mid)
	}
}

func TestPerformanceRating_WinBeatsLoss(t *testing.T) {
	win := PerformanceRating(1500, 80, ResultWin)
	loss := PerformanceRating(1500, 80, ResultLoss)
	if win <= loss {
		t.Errorf("PerformanceRating(win)=%d should exceed PerformanceRating(loss)=%d", win, loss)
	}
}
