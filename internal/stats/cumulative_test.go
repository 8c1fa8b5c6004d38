package stats

import "testing"

func TestCumulativeCarriesForward(t *testing.T) {
	// 30-day month, expense on day 1 only: every position holds 1000.
	series := Cumulative(map[int]int64{1: 1000}, 30)
	if len(series) != 30 {
		t.Fatalf("len = %d, want 30", len(series))
	}
	for i, v := range series {
		if v != 1000 {
			t.Fatalf("day %d = %d, want 1000", i+1, v)
		}
	}
}

func TestCumulativeGapFilling(t *testing.T) {
	// Income on day 15 only: zeros before, 500 from day 15 on.
	series := Cumulative(map[int]int64{15: 500}, 30)
	for i := 0; i < 14; i++ {
		if series[i] != 0 {
			t.Fatalf("day %d = %d, want 0", i+1, series[i])
		}
	}
	for i := 14; i < 30; i++ {
		if series[i] != 500 {
			t.Fatalf("day %d = %d, want 500", i+1, series[i])
		}
	}
}

func TestCumulativeNonDecreasing(t *testing.T) {
	series := Cumulative(map[int]int64{1: 10, 4: 25, 17: 3, 28: 400}, 31)
	for i := 1; i < len(series); i++ {
		if series[i] < series[i-1] {
			t.Fatalf("series decreases at day %d: %d < %d", i+1, series[i], series[i-1])
		}
	}
	if series[30] != 438 {
		t.Fatalf("final total = %d, want 438", series[30])
	}
}

func TestCumulativeEmptyMonth(t *testing.T) {
	series := Cumulative(nil, 28)
	if len(series) != 28 {
		t.Fatalf("len = %d, want 28", len(series))
	}
	for i, v := range series {
		if v != 0 {
			t.Fatalf("day %d = %d, want 0", i+1, v)
		}
	}
}

func TestDayLabels(t *testing.T) {
	labels := DayLabels(31)
	if len(labels) != 31 {
		t.Fatalf("len = %d, want 31", len(labels))
	}
	if labels[0] != "1" || labels[30] != "31" {
		t.Fatalf("unexpected labels %q .. %q", labels[0], labels[30])
	}
}
