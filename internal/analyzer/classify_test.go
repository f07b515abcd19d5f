package analyzer

import (
	"testing"

	"github.com/eloinsight/analysis-service/internal/board"
	"github.com/eloinsight/analysis-service/internal/classify"
	"github.com/eloinsight/analysis-service/internal/result"
)

func TestMaterialSacrificed_ZeroPliesOrEmptyContinuation(t *testing.T) {
	hm := board.HalfMove{WhiteToMove: true, FENAfter: "3qk3/8/8/8/8/8/8/3QK3 b - - 0 1", MaterialWhite: 900}
	if got := materialSacrificed(hm, []string{"d8d1"}, 0); got != 0 {
		t.Errorf("materialSacrificed with 0 plies = %d, want 0", got)
	}
	if got := materialSacrificed(hm, nil, 3); got != 0 {
		t.Errorf("materialSacrificed with empty continuation = %d, want 0", got)
	}
}

func TestMaterialSacrificed_DetectsQueenGivenBack(t *testing.T) {
	hm := board.HalfMove{
		WhiteToMove:   true,
		FENAfter:      "3qk3/8/8/8/8/8/8/3QK3 b - - 0 1",
		MaterialWhite: board.QueenValue,
	}
	got := materialSacrificed(hm, []string{"d8d1"}, 1)
	if got != board.QueenValue {
		t.Errorf("materialSacrificed() = %d, want %d (the white queen taken back)", got, board.QueenValue)
	}
}

func TestMaterialSacrificed_QuietContinuationIsZero(t *testing.T) {
	hm := board.HalfMove{
		WhiteToMove:   true,
		FENAfter:      "4k3/8/8/8/3q4/8/8/3QK3 b - - 0 1",
		MaterialWhite: board.QueenValue,
	}
	got := materialSacrificed(hm, []string{"d4d5"}, 1)
	if got != 0 {
		t.Errorf("materialSacrificed() = %d, want 0 (white material untouched)", got)
	}
}

func TestMaterialSacrificed_UnreadableMoveIsZero(t *testing.T) {
	hm := board.HalfMove{WhiteToMove: true, FENAfter: "3qk3/8/8/8/8/8/8/3QK3 b - - 0 1", MaterialWhite: 900}
	got := materialSacrificed(hm, []string{"z9z9"}, 1)
	if got != 0 {
		t.Errorf("materialSacrificed() with an undecodable move = %d, want 0", got)
	}
}

func TestRefineHalf_SkipsBookMoves(t *testing.T) {
	halfMoves := []board.HalfMove{{WhiteToMove: true, FENAfter: "3qk3/8/8/8/8/8/8/3QK3 b - - 0 1", MaterialWhite: 900}}
	th := classify.DefaultThresholds()

	half := &result.HalfMoveResult{IsBookMove: true, Label: classify.BookMove, ContinuationUCI: []string{"d8d1"}}
	refineHalf(half, halfMoves, 0, th)
	if half.Label != classify.BookMove {
		t.Errorf("book-move half should be left untouched, got label %v", half.Label)
	}
}

func TestRefineHalf_OutOfRangePlyIsNoOp(t *testing.T) {
	th := classify.DefaultThresholds()
	half := &result.HalfMoveResult{Label: classify.GoodMove}
	refineHalf(half, nil, 0, th)
	if half.Label != classify.GoodMove {
		t.Errorf("out-of-range ply should leave the label untouched, got %v", half.Label)
	}
}
