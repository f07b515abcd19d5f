package scheduler

import "testing"

func TestPartition_EvenSplit(t *testing.T) {
	threads := Partition(4, 16)
	if len(threads) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(threads))
	}
	for _, n := range threads {
		if n != 4 {
			t.Errorf("expected 4 threads per slot, got %d", n)
		}
	}
}

func TestPartition_UnevenSplitGivesRemainderToFirstSlots(t *testing.T) {
	threads := Partition(4, 15)
	want := []int{4, 4, 4, 3}
	if len(threads) != len(want) {
		t.Fatalf("expected %d slots, got %d", len(want), len(threads))
	}
	for i, n := range threads {
		if n != want[i] {
			t.Errorf("slot %d: want %d threads, got %d", i, want[i], n)
		}
	}
}

func TestPartition_MoreGamesThanCores(t *testing.T) {
	threads := Partition(8, 4)
	if len(threads) != 4 {
		t.Fatalf("expected parallel games capped at cores (4), got %d slots", len(threads))
	}
	for _, n := range threads {
		if n != 1 {
			t.Errorf("expected 1 thread per slot, got %d", n)
		}
	}
}

func TestPartition_AtLeastOneSlot(t *testing.T) {
	threads := Partition(0, 4)
	if len(threads) < 1 {
		t.Fatal("expected at least one slot even when maxParallelGames is 0")
	}
}

func TestThreadDistributionStatus_Homogeneous(t *testing.T) {
	got := ThreadDistributionStatus([]int{4, 4, 4, 4})
	want := "16 threads (4×4)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestThreadDistributionStatus_Heterogeneous(t *testing.T) {
	got := ThreadDistributionStatus([]int{4, 4, 4, 3})
	want := "15 threads (4+4+4+3)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
