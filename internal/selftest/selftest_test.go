package selftest

import "testing"

func TestRunAllChecksPass(t *testing.T) {
	results := Run()
	if len(results) == 0 {
		t.Fatal("Run() returned no results")
	}
	for _, r := range results {
		if !r.Passed() {
			t.Errorf("check %q failed: %v", r.Name, r.Err)
		}
	}
}

func TestSummarizeCountsFailures(t *testing.T) {
	results := []Result{
		{Name: "a"},
		{Name: "b", Err: errBoom},
	}
	report, failures := Summarize(results)
	if failures != 1 {
		t.Fatalf("failures = %d, want 1", failures)
	}
	if report == "" {
		t.Fatal("expected non-empty report")
	}
}

var errBoom = boomError{}

type boomError struct{}

func (boomError) Error() string { return "boom" }
