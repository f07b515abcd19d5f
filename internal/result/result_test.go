package result

import (
	"testing"

	"github.com/eloinsight/analysis-service/internal/classify"
)

func TestRowAt_GrowsAndZeroFills(t *testing.T) {
	var rows []Row
	rows = RowAt(rows, 3)
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	for i, r := range rows {
		if r.MoveNumber != i+1 {
			t.Errorf("rows[%d].MoveNumber = %d, want %d", i, r.MoveNumber, i+1)
		}
		if r.White != nil || r.Black != nil {
			t.Errorf("rows[%d] should start with nil halves", i)
		}
	}
}

func TestRowAt_NoOpWhenAlreadyLongEnough(t *testing.T) {
	rows := []Row{{MoveNumber: 1}, {MoveNumber: 2}}
	got := RowAt(rows, 1)
	if len(got) != 2 {
		t.Fatalf("len(rows) = %d, want 2 (unchanged)", len(got))
	}
}

func TestCountLabel_NilHalfIsNoOp(t *testing.T) {
	var m PlayerMetrics
	CountLabel(&m, nil)
	if m.TotalMoves != 0 {
		t.Errorf("TotalMoves = %d, want 0", m.TotalMoves)
	}
}

func TestCountLabel_TalliesEveryLabel(t *testing.T) {
	labels := []classify.Label{
		classify.BookMove, classify.BestMove, classify.GoodMove,
		classify.Inaccuracy, classify.Mistake, classify.Blunder,
		classify.Miss, classify.Brilliant,
	}
	var m PlayerMetrics
	for _, l := range labels {
		CountLabel(&m, &HalfMoveResult{Label: l})
	}
	if m.TotalMoves != len(labels) {
		t.Fatalf("TotalMoves = %d, want %d", m.TotalMoves, len(labels))
	}
	if m.BookMoves != 1 || m.BestMoves != 1 || m.GoodMoves != 1 ||
		m.Inaccuracies != 1 || m.Mistakes != 1 || m.Blunders != 1 ||
		m.Misses != 1 || m.BrilliantMoves != 1 {
		t.Errorf("per-label counters not all 1: %+v", m)
	}
}
