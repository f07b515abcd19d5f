package rpc

import (
	"testing"

	"github.com/eloinsight/analysis-service/internal/classify"
	"github.com/eloinsight/analysis-service/internal/result"
)

func TestConvertEvaluation_Centipawns(t *testing.T) {
	got := convertEvaluation(classify.Score{Cp: 145})
	if got.IsMate || got.Centipawns != 145 {
		t.Errorf("convertEvaluation() = %+v, want Centipawns=145", got)
	}
}

func TestConvertEvaluation_Mate(t *testing.T) {
	got := convertEvaluation(classify.Score{IsMate: true, MatePlies: -3})
	if !got.IsMate || got.MateIn != -3 {
		t.Errorf("convertEvaluation() = %+v, want IsMate=true MateIn=-3", got)
	}
}

func TestConvertHalfMove_NilIsNil(t *testing.T) {
	if got := convertHalfMove(nil, 1, true); got != nil {
		t.Errorf("convertHalfMove(nil) = %+v, want nil", got)
	}
}

func TestConvertHalfMove_PlyNumberingWhiteAndBlack(t *testing.T) {
	half := &result.HalfMoveResult{SAN: "e4", BestSAN: [3]string{"e4", "d4", "c4"}}

	white := convertHalfMove(half, 5, true)
	if white.Ply != 9 || white.Color != "white" {
		t.Errorf("white ply/color = %d/%s, want 9/white", white.Ply, white.Color)
	}

	black := convertHalfMove(half, 5, false)
	if black.Ply != 10 || black.Color != "black" {
		t.Errorf("black ply/color = %d/%s, want 10/black", black.Ply, black.Color)
	}
	if white.BestMove != "e4" {
		t.Errorf("BestMove = %q, want top PV slot", white.BestMove)
	}
}

func TestConvertGameAnalysis_NilGameReturnsEmptyShell(t *testing.T) {
	got := convertGameAnalysis(nil)
	if got == nil || got.GameID != "" || len(got.Moves) != 0 {
		t.Errorf("convertGameAnalysis(nil) = %+v, want an empty non-nil shell", got)
	}
}

func TestConvertGameAnalysis_FlattensRowsToMoves(t *testing.T) {
	g := &result.Game{
		GameID: "g1",
		Rows: []result.Row{
			{MoveNumber: 1, White: &result.HalfMoveResult{SAN: "e4"}, Black: &result.HalfMoveResult{SAN: "e5"}},
			{MoveNumber: 2, White: &result.HalfMoveResult{SAN: "Nf3"}},
		},
	}
	got := convertGameAnalysis(g)
	if len(got.Moves) != 3 {
		t.Fatalf("len(Moves) = %d, want 3 (nil Black half at move 2 skipped)", len(got.Moves))
	}
	if got.Moves[0].PlayedMove != "e4" || got.Moves[1].PlayedMove != "e5" || got.Moves[2].PlayedMove != "Nf3" {
		t.Errorf("Moves in unexpected order: %+v", got.Moves)
	}
}

func TestDepthOrDefault(t *testing.T) {
	if got := depthOrDefault(0, 18); got != 18 {
		t.Errorf("depthOrDefault(0, 18) = %d, want 18", got)
	}
	if got := depthOrDefault(12, 18); got != 12 {
		t.Errorf("depthOrDefault(12, 18) = %d, want 12", got)
	}
	if got := depthOrDefault(-1, 18); got != 18 {
		t.Errorf("depthOrDefault(-1, 18) = %d, want 18", got)
	}
}
