package shift

import (
	"testing"
	"time"
)

func TestResolve(t *testing.T) {
	clockOut := time.Date(2026, 8, 1, 22, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		att  *Attendance
		want string
	}{
		{
			name: "no attendance row",
			att:  nil,
			want: StatusMissed,
		},
		{
			name: "present attendance",
			att:  &Attendance{Status: AttendancePresent, ClockOut: &clockOut},
			want: StatusCompleted,
		},
		{
			name: "open clock-in never proved out",
			att:  &Attendance{Status: AttendanceAbsent},
			want: StatusMissed,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := Resolve(tc.att); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func window(startHour, endHour int) Window {
	day := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	return Window{Start: day.Add(time.Duration(startHour) * time.Hour), End: day.Add(time.Duration(endHour) * time.Hour)}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    Window
		b    Window
		want bool
	}{
		{"b contains a start", window(10, 14), window(9, 12), true},
		{"b contains a end", window(10, 14), window(12, 15), true},
		{"a fully contains b", window(10, 14), window(11, 12), true},
		{"identical windows", window(10, 14), window(10, 14), true},
		{"disjoint before", window(10, 14), window(6, 9), false},
		{"disjoint after", window(10, 14), window(15, 18), false},
		{"back to back", window(10, 14), window(14, 18), false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.a, tc.b); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestSelectReplacementPicksFirstConflictFree(t *testing.T) {
	shiftWindow := window(18, 23)
	candidates := []Candidate{
		{EmployeeID: "e1", Busy: []Window{window(20, 22)}},
		{EmployeeID: "e2", Busy: []Window{window(8, 12)}},
		{EmployeeID: "e3", Busy: nil},
	}

	selected, ok := SelectReplacement(candidates, shiftWindow)
	if !ok {
		t.Fatal("expected a replacement")
	}
	if selected != "e2" {
		t.Fatalf("expected e2, got %s", selected)
	}
}

func TestSelectReplacementExhaustion(t *testing.T) {
	shiftWindow := window(18, 23)
	candidates := []Candidate{
		{EmployeeID: "e1", Busy: []Window{window(17, 19)}},
		{EmployeeID: "e2", Busy: []Window{window(22, 23)}},
	}

	if _, ok := SelectReplacement(candidates, shiftWindow); ok {
		t.Fatal("expected exhaustion when every candidate conflicts")
	}
}

func TestSelectReplacementEmptyPool(t *testing.T) {
	if _, ok := SelectReplacement(nil, window(18, 23)); ok {
		t.Fatal("expected no selection from an empty pool")
	}
}
