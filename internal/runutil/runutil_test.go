package runutil

import (
	"runtime"
	"testing"
)

func TestEffectiveThreads(t *testing.T) {
	if got := EffectiveThreads(3); got != 3 {
		t.Fatalf("want 3, got %d", got)
	}
	if got := EffectiveThreads(0); got != runtime.NumCPU() {
		t.Fatalf("0 → NumCPU, got %d", got)
	}
	if got := EffectiveThreads(-1); got != runtime.NumCPU() {
		t.Fatalf("-1 → NumCPU, got %d", got)
	}
}

func TestComputeQueueCapacity(t *testing.T) {
	if got := ComputeQueueCapacity(5, 8); got != 5 {
		t.Fatalf("explicit capacity wins, got %d", got)
	}
	if got := ComputeQueueCapacity(0, 8); got != 16 {
		t.Fatalf("expect 2×workers=16, got %d", got)
	}
	if got := ComputeQueueCapacity(0, 0); got != 2 {
		t.Fatalf("expect 2 for a single worker, got %d", got)
	}
}

func TestValidateExecution(t *testing.T) {
	// sequential with overrides warns
	w, q, warns := ValidateExecution(true, 4, 10)
	if w != 1 || q != 0 || len(warns) != 2 {
		t.Fatalf("sequential: w=%d q=%d warns=%v", w, q, warns)
	}
	// sequential, nothing set
	_, _, warns = ValidateExecution(true, 0, 0)
	if len(warns) != 0 {
		t.Fatalf("no overrides → no warnings, got %v", warns)
	}
	// parallel
	w, q, warns = ValidateExecution(false, 3, 0)
	if w != 3 || q != 6 || len(warns) != 0 {
		t.Fatalf("parallel: w=%d q=%d warns=%v", w, q, warns)
	}
}

func TestComputeTagged(t *testing.T) {
	if ComputeTagged(1, false) {
		t.Fatal("single sequence is untagged")
	}
	if !ComputeTagged(2, false) {
		t.Fatal("two sequences are tagged")
	}
	if !ComputeTagged(1, true) {
		t.Fatal("force tags")
	}
}

func TestLooksLikeOutput(t *testing.T) {
	for _, p := range []string{"out.arrow", "x/y.IPC", "r.json", "a.feather"} {
		if !LooksLikeOutput(p) {
			t.Errorf("%s should look like output", p)
		}
	}
	for _, p := range []string{"genome.fa", "g.fa.gz", "-", "reads.fasta.zst"} {
		if LooksLikeOutput(p) {
			t.Errorf("%s should look like input", p)
		}
	}
}
