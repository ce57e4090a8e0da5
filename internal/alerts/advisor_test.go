package alerts

import (
	"os"
	"path/filepath"
	"testing"
)

const testRules = `
rules:
  - id: high-cpu
    match:
      metric: cpu_utilization
    advice:
      - "check batch jobs"
  - id: cpu-saturated
    match:
      metric: cpu_utilization
      margin_at_least: 10
    advice:
      - "add capacity"
      - "check batch jobs"
  - id: any-metric
    match: {}
    advice:
      - "page the on-call"
`

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	return path
}

func TestAdvisorMatchesMetricAndMargin(t *testing.T) {
	advisor, err := NewAdvisor(writeRules(t, testRules), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if advisor == nil {
		t.Fatalf("expected an advisor")
	}

	advice := advisor.Advise("cpu_utilization", 5)
	if len(advice) != 2 {
		t.Fatalf("expected metric rule plus catch-all, got %v", advice)
	}

	advice = advisor.Advise("cpu_utilization", 12)
	// Duplicate advice strings collapse.
	if len(advice) != 3 {
		t.Fatalf("expected deduplicated advice from three rules, got %v", advice)
	}

	advice = advisor.Advise("memory_usage", 1)
	if len(advice) != 1 || advice[0] != "page the on-call" {
		t.Fatalf("expected only the catch-all rule, got %v", advice)
	}
}

func TestAdvisorMissingFileIsNil(t *testing.T) {
	advisor, err := NewAdvisor(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if advisor != nil {
		t.Fatalf("expected nil advisor for a missing rule pack")
	}
}

func TestNilAdvisorAdvisesNothing(t *testing.T) {
	var advisor *Advisor
	if advice := advisor.Advise("cpu_utilization", 50); advice != nil {
		t.Fatalf("nil advisor returned advice: %v", advice)
	}
}

func TestAdvisorEmptyPath(t *testing.T) {
	advisor, err := NewAdvisor("", nil)
	if err != nil || advisor != nil {
		t.Fatalf("empty path should yield nil advisor, got %v, %v", advisor, err)
	}
}

func TestAdvisorReload(t *testing.T) {
	path := writeRules(t, testRules)
	advisor, err := NewAdvisor(path, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated := `
rules:
  - id: only
    match:
      metric: temperature
    advice:
      - "check cooling"
`
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatalf("rewrite rules: %v", err)
	}
	advisor.reload()

	if advice := advisor.Advise("temperature", 1); len(advice) != 1 || advice[0] != "check cooling" {
		t.Fatalf("expected reloaded rule to apply, got %v", advice)
	}
	if advice := advisor.Advise("cpu_utilization", 20); len(advice) != 0 {
		t.Fatalf("old rules should be gone, got %v", advice)
	}
}

func TestAdvisorMalformedPackErrors(t *testing.T) {
	if _, err := NewAdvisor(writeRules(t, "rules: ["), nil); err == nil {
		t.Fatalf("expected a parse error for a malformed rule pack")
	}
}
