package report

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func sampleRun() *RunResult {
	r := &RunResult{ID: uuid.New().String(), Timeout: "10s"}
	r.Add(CaseResult{Problem: "Problem_A", Case: "1", Verdict: Pass, Message: "[Problem_A:1] ✅ Pass"})
	r.Add(CaseResult{Problem: "Problem_A", Case: "2", Verdict: WrongOutput, Message: "[Problem_A:2] ❌ Output not matching"})
	r.Add(CaseResult{Problem: "Problem_A", Case: "3", Verdict: Skipped, Message: "[Problem_A:3] ⚠️ Empty testcase skipped"})
	r.Add(CaseResult{Problem: "Problem_B", Verdict: ConfigError, Message: "[Problem_B] ⚠️ No testcase directory found"})
	r.Add(CaseResult{Problem: "C", Case: "C", Verdict: Timeout, Message: "[C] ⏱️ Timeout (>10s)"})
	return r
}

func TestRunResult_Counters(t *testing.T) {
	r := sampleRun()
	if r.Total != 3 {
		t.Errorf("Total = %d, want 3 (skipped and config errors excluded)", r.Total)
	}
	if r.Passed != 1 {
		t.Errorf("Passed = %d, want 1", r.Passed)
	}
	if r.Failures != 3 {
		t.Errorf("Failures = %d, want 3", r.Failures)
	}
	if r.OK() {
		t.Error("OK() = true, want false")
	}
	if got := r.Summary(); got != "Passed: 1/3" {
		t.Errorf("Summary() = %q", got)
	}
}

func TestRunResult_OK(t *testing.T) {
	r := &RunResult{}
	if r.OK() {
		t.Error("empty run should not be OK")
	}
	if got := r.Summary(); got != "No testcases were executed" {
		t.Errorf("Summary() = %q", got)
	}

	r.Add(CaseResult{Problem: "A", Verdict: Pass})
	r.Add(CaseResult{Problem: "A", Case: "2", Verdict: Skipped})
	if !r.OK() {
		t.Error("all executed cases passed, OK() should be true")
	}

	r.Add(CaseResult{Problem: "B", Verdict: ConfigError})
	if r.OK() {
		t.Error("a config error must fail the run")
	}
}

func TestBySymbol(t *testing.T) {
	r := sampleRun()
	if got := BySymbol(r, "Problem_A"); len(got) != 3 {
		t.Errorf("BySymbol(Problem_A) = %d entries, want 3", len(got))
	}
	got := BySymbol(r, "Problem_A:2")
	if len(got) != 1 || got[0].Verdict != WrongOutput {
		t.Errorf("BySymbol(Problem_A:2) = %+v", got)
	}
	if got := BySymbol(r, "C:C"); len(got) != 1 {
		t.Errorf("BySymbol(C:C) = %+v", got)
	}
	if got := BySymbol(r, "Problem_B:Problem_B"); len(got) != 1 {
		t.Errorf("problem-level entries should match problem:problem, got %+v", got)
	}
	if got := BySymbol(r, "Nope"); len(got) != 0 {
		t.Errorf("BySymbol(Nope) = %+v, want none", got)
	}
}

func TestFailing(t *testing.T) {
	if got := Failing(sampleRun()); len(got) != 3 {
		t.Errorf("Failing() = %d entries, want 3", len(got))
	}
}

func TestDiskStore_RoundTrip(t *testing.T) {
	s := NewDiskStore(t.TempDir())
	r := sampleRun()
	if err := s.Save(r); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(r.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Passed != r.Passed || got.Total != r.Total || len(got.Cases) != len(r.Cases) {
		t.Errorf("Load = %+v, want %+v", got, r)
	}
	if got.Cases[1].Verdict != WrongOutput {
		t.Errorf("Cases[1].Verdict = %q", got.Cases[1].Verdict)
	}
}

func TestDiskStore_RejectsNonUUID(t *testing.T) {
	s := NewDiskStore(t.TempDir())
	if _, err := s.Load("../../etc/passwd"); err == nil {
		t.Fatal("expected error for non-UUID run id")
	}
}

type countingStore struct {
	saved map[string]*RunResult
	loads int
}

func (c *countingStore) Save(r *RunResult) error {
	c.saved[r.ID] = r
	return nil
}

func (c *countingStore) Load(id string) (*RunResult, error) {
	c.loads++
	if r, ok := c.saved[id]; ok {
		return r, nil
	}
	return nil, errors.New("not found")
}

func TestLRUStore_Eviction(t *testing.T) {
	back := &countingStore{saved: map[string]*RunResult{}}
	s := NewLRUStore(2, back)

	r1, r2, r3 := sampleRun(), sampleRun(), sampleRun()
	for _, r := range []*RunResult{r1, r2, r3} {
		if err := s.Save(r); err != nil {
			t.Fatal(err)
		}
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}

	if _, err := s.Load(r3.ID); err != nil {
		t.Fatal(err)
	}
	if back.loads != 0 {
		t.Errorf("cached load hit the backing store")
	}

	if _, err := s.Load(r1.ID); err != nil {
		t.Fatal(err)
	}
	if back.loads != 1 {
		t.Errorf("backing loads = %d, want 1 for evicted run", back.loads)
	}

	if _, err := s.Load("missing"); err == nil {
		t.Error("expected error for unknown run")
	}
}
