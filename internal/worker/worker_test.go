package worker

import "testing"

func TestPVSlot_ZeroValueIsEmpty(t *testing.T) {
	var s PVSlot
	if s.FirstSAN != "" || len(s.MovesUCI) != 0 {
		t.Errorf("zero PVSlot should be empty, got %+v", s)
	}
}

func TestResult_PartialClearsNothingButIsFlagged(t *testing.T) {
	r := Result{Partial: true}
	if !r.Partial {
		t.Error("Partial flag should round-trip")
	}
}
