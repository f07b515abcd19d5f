package classify

import "testing"

func TestAssess_Ordering(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name string
		in   AssessInputs
		want Label
	}{
		{"book move wins over everything", AssessInputs{IsBookMove: true, CPL: 999, PlayedMatchesBest: true}, BookMove},
		{"exact best move", AssessInputs{PlayedMatchesBest: true, CPL: 0}, BestMove},
		{"good move", AssessInputs{CPL: 50}, GoodMove},
		{"inaccuracy", AssessInputs{CPL: 51}, Inaccuracy},
		{"mistake", AssessInputs{CPL: 200}, Mistake},
		{"blunder", AssessInputs{CPL: 201}, Blunder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Assess(tt.in, th)
			if got != tt.want {
				t.Errorf("Assess() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAssess_MissBeatsGenericBucket(t *testing.T) {
	// scenario 3 of spec.md §8: best move is a capture, played move isn't,
	// CPL = 170 (>150, <= mistake 200) -> Miss, not Mistake.
	th := DefaultThresholds()
	in := AssessInputs{
		CPL:                   170,
		BestIsTactical:        true,
		PlayedIsCaptureOrMate: false,
	}
	if got := Assess(in, th); got != Miss {
		t.Errorf("Assess() = %v, want Miss", got)
	}
}

func TestIsMiss_NeverFiresOnCaptureOrMate(t *testing.T) {
	th := DefaultThresholds()
	if IsMiss(300, true, true, th) {
		t.Error("IsMiss() = true for a played move that was itself a capture/mate, want false")
	}
}

func TestIsMiss_RequiresTacticalBest(t *testing.T) {
	th := DefaultThresholds()
	if IsMiss(300, false, false, th) {
		t.Error("IsMiss() = true when the best move wasn't tactical, want false")
	}
}

func TestIsMiss_BelowCPLFloor(t *testing.T) {
	th := DefaultThresholds()
	if IsMiss(99, true, false, th) {
		t.Error("IsMiss() = true below the 100cp floor, want false")
	}
}

func TestBrilliant_AllThreeChecksPass(t *testing.T) {
	// scenario 5 of spec.md §8.
	th := DefaultThresholds()
	in := BrilliantInputs{
		White:          true,
		PlayedIsCapture: false,
		MaterialLostCp: 300,
		EvalBefore:     20,
		EvalAfter:      220,
	}
	if !Brilliant(in, th) {
		t.Error("Brilliant() = false, want true for the scenario-5 sacrifice")
	}
}

func TestBrilliant_NeverForACapture(t *testing.T) {
	th := DefaultThresholds()
	in := BrilliantInputs{
		White:          true,
		PlayedIsCapture: true,
		MaterialLostCp: 900,
		EvalBefore:     20,
		EvalAfter:      900,
	}
	if Brilliant(in, th) {
		t.Error("Brilliant() = true for a capturing move, want false")
	}
}

func TestBrilliant_InsufficientMaterial(t *testing.T) {
	th := DefaultThresholds()
	in := BrilliantInputs{White: true, MaterialLostCp: 100, EvalBefore: 0, EvalAfter: 300}
	if Brilliant(in, th) {
		t.Error("Brilliant() = true below the material-sacrifice floor, want false")
	}
}

func TestBrilliant_ExcludesAlreadyWinning(t *testing.T) {
	th := DefaultThresholds()
	in := BrilliantInputs{
		White:          true,
		MaterialLostCp: 300,
		EvalBefore:     600, // already above MaxEvalBefore=500
		EvalAfter:      900,
	}
	if Brilliant(in, th) {
		t.Error("Brilliant() = true when already winning, want false")
	}
}

func TestBrilliant_BlackPerspective(t *testing.T) {
	th := DefaultThresholds()
	in := BrilliantInputs{
		White:          false,
		MaterialLostCp: 300,
		EvalBefore:     -20,
		EvalAfter:      -220,
	}
	if !Brilliant(in, th) {
		t.Error("Brilliant() = false for black's symmetric sacrifice, want true")
	}
}
