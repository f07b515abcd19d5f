package book

import (
	"testing"

	"github.com/eloinsight/analysis-service/internal/board"
)

func TestNullOracle_NeverMatches(t *testing.T) {
	var o NullOracle
	if o.IsBookMove(nil) {
		t.Error("NullOracle.IsBookMove should always be false")
	}
	if _, _, found := o.OpeningInfo(nil); found {
		t.Error("NullOracle.OpeningInfo should never find a match")
	}
}

func TestECOOracle_RecognisesKnownOpening(t *testing.T) {
	g, err := board.NewGame("", []string{"e4", "e5", "Nf3", "Nc6", "Bb5"})
	if err != nil {
		t.Fatalf("board.NewGame failed: %v", err)
	}

	o := NewECOOracle()
	moves := g.MovesThrough(5)
	if !o.IsBookMove(moves) {
		t.Error("the Ruy Lopez mainline should be recognised as a book move")
	}
	eco, name, found := o.OpeningInfo(moves)
	if !found || eco == "" || name == "" {
		t.Errorf("OpeningInfo(%v) = (%q, %q, %v), want a populated ECO code and name", moves, eco, name, found)
	}
}

func TestECOOracle_UnknownSequenceMisses(t *testing.T) {
	g, err := board.NewGame("", []string{"a4", "a5", "h4", "h5", "Ra3", "Ra6", "Rh3", "Rh6"})
	if err != nil {
		t.Fatalf("board.NewGame failed: %v", err)
	}

	o := NewECOOracle()
	if o.IsBookMove(g.MovesThrough(8)) {
		t.Error("an off-theory shuffle should not be recognised as a book move")
	}
}
