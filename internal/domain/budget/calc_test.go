package budget

import (
	"math"
	"strings"
	"testing"
)

func TestAdjustOverrun(t *testing.T) {
	got, reason := Adjust(10000, 15000)
	// 15000 + 0.2*5000 = 16000
	if got != 16000 {
		t.Fatalf("expected 16000, got %v", got)
	}
	if !strings.HasPrefix(reason, "Exceeded") {
		t.Fatalf("expected overrun reason, got %q", reason)
	}
}

func TestAdjustUnderrun(t *testing.T) {
	got, reason := Adjust(20000, 14000)
	// 14000 + 0.2*6000 = 15200 -> 15000
	if got != 15000 {
		t.Fatalf("expected 15000, got %v", got)
	}
	if !strings.HasPrefix(reason, "Under") {
		t.Fatalf("expected underrun reason, got %q", reason)
	}
}

func TestAdjustExactMatch(t *testing.T) {
	got, reason := Adjust(50000, 50000)
	if got != 60000 {
		t.Fatalf("expected 60000, got %v", got)
	}
	if !strings.Contains(reason, "matched") {
		t.Fatalf("expected match reason, got %q", reason)
	}
}

func TestAdjustClampsToBounds(t *testing.T) {
	if got, _ := Adjust(10000, 0); got != MinBudget {
		t.Fatalf("expected floor %v, got %v", MinBudget, got)
	}
	if got, _ := Adjust(130000, 500000); got != MaxBudget {
		t.Fatalf("expected ceiling %v, got %v", MaxBudget, got)
	}
}

func TestAdjustInvalidInputFallsBack(t *testing.T) {
	got, reason := Adjust(10000, math.NaN())
	if got != MinBudget {
		t.Fatalf("expected fallback to %v, got %v", MinBudget, got)
	}
	if !strings.Contains(reason, "Invalid") {
		t.Fatalf("expected invalid-input reason, got %q", reason)
	}

	if got, _ := Adjust(math.Inf(1), 10000); got < MinBudget || got > MaxBudget {
		t.Fatalf("infinite budget produced out-of-range result %v", got)
	}
}

func TestAdjustRangeAndGranularity(t *testing.T) {
	// every result stays in range and lands on a thousand boundary
	for spend := 0.0; spend <= 300000; spend += 3517 {
		for budget := MinBudget; budget <= MaxBudget; budget += 17000 {
			got, _ := Adjust(budget, spend)
			if got < MinBudget || got > MaxBudget {
				t.Fatalf("Adjust(%v, %v) = %v out of range", budget, spend, got)
			}
			if math.Mod(got, 1000) != 0 {
				t.Fatalf("Adjust(%v, %v) = %v not a multiple of 1000", budget, spend, got)
			}
		}
	}
}
