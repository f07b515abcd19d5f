package engine

import (
	"testing"

	"github.com/eloinsight/analysis-service/internal/classify"
)

func TestParseInfoLine_Cp(t *testing.T) {
	line := "info depth 20 seldepth 28 multipv 1 score cp 34 nodes 1200000 nps 900000 time 1333 pv e2e4 e7e5"
	info := ParseInfoLine(line)
	if !info.HasScore || info.Score.IsMate || info.Score.Cp != 34 {
		t.Fatalf("ParseInfoLine() score = %+v, want cp 34", info.Score)
	}
	if info.Depth != 20 || info.SelDepth != 28 || info.MultiPV != 1 {
		t.Errorf("ParseInfoLine() depth fields = %+v", info)
	}
	if len(info.PV) != 2 || info.PV[0] != "e2e4" {
		t.Errorf("ParseInfoLine() pv = %v", info.PV)
	}
}

func TestParseInfoLine_Mate(t *testing.T) {
	info := ParseInfoLine("info depth 12 score mate 3 pv f7f6 g2g4 d8h4")
	if !info.HasScore || !info.Score.IsMate || info.Score.MatePlies != 3 {
		t.Fatalf("ParseInfoLine() score = %+v, want mate 3", info.Score)
	}
}

func TestParseInfoLine_StringLineHasNoScore(t *testing.T) {
	info := ParseInfoLine("info string NNUE evaluation enabled")
	if info.HasScore {
		t.Error("ParseInfoLine() HasScore = true for an info string line, want false")
	}
}

func TestNormalizeToWhite(t *testing.T) {
	cp := NormalizeToWhite(classify.CpScore(34), false)
	if cp.Cp != -34 {
		t.Errorf("NormalizeToWhite(cp34, blackToMove) = %+v, want cp -34", cp)
	}
	mate := NormalizeToWhite(classify.MateScore(3), false)
	if !mate.IsMate || mate.MatePlies != -3 {
		t.Errorf("NormalizeToWhite(mate3, blackToMove) = %+v, want mate -3", mate)
	}
	same := NormalizeToWhite(classify.CpScore(34), true)
	if same.Cp != 34 {
		t.Errorf("NormalizeToWhite(cp34, whiteToMove) = %+v, want unchanged", same)
	}
}

func TestParseBestMove(t *testing.T) {
	bm, ok := ParseBestMove("bestmove e2e4 ponder e7e5")
	if !ok || bm.BestMove != "e2e4" || bm.PonderMove != "e7e5" || bm.None {
		t.Errorf("ParseBestMove() = %+v", bm)
	}
}

func TestParseBestMove_None(t *testing.T) {
	bm, ok := ParseBestMove("bestmove (none)")
	if !ok || !bm.None {
		t.Errorf("ParseBestMove() = %+v, ok=%v, want None=true", bm, ok)
	}
}

func TestParseBestMove_NotABestmoveLine(t *testing.T) {
	if _, ok := ParseBestMove("info depth 1"); ok {
		t.Error("ParseBestMove() ok = true for a non-bestmove line")
	}
}
