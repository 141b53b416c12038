package dashboard

import (
	"testing"
	"time"
)

var augustAsOf = time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)

func TestResolveWindowYearUsesCurrentYear(t *testing.T) {
	year, months := resolveWindow(ChartWindow{Mode: ModeYear, Year: 2019}, augustAsOf)
	if year != 2026 {
		t.Fatalf("year mode must anchor on the current year, got %d", year)
	}
	if len(months) != 12 {
		t.Fatalf("expected 12 months got %d", len(months))
	}
}

func TestResolveWindowQuarter(t *testing.T) {
	year, months := resolveWindow(ChartWindow{Mode: ModeQuarter}, augustAsOf)
	if year != 2026 {
		t.Fatalf("unexpected year %d", year)
	}
	want := []time.Month{time.July, time.August, time.September}
	if len(months) != 3 {
		t.Fatalf("expected 3 months got %d", len(months))
	}
	for i, m := range want {
		if months[i] != m {
			t.Fatalf("expected month %v at %d got %v", m, i, months[i])
		}
	}
}

func TestResolveWindowMonth(t *testing.T) {
	_, months := resolveWindow(ChartWindow{Mode: ModeMonth}, augustAsOf)
	if len(months) != 1 || months[0] != time.August {
		t.Fatalf("expected [August] got %v", months)
	}
}

func TestResolveWindowSpecificSortsAndDedupes(t *testing.T) {
	w := ChartWindow{Mode: ModeSpecific, Year: 2025, Months: []time.Month{time.March, time.January, time.March}}
	year, months := resolveWindow(w, augustAsOf)
	if year != 2025 {
		t.Fatalf("specific mode must honour the explicit year, got %d", year)
	}
	if len(months) != 2 || months[0] != time.January || months[1] != time.March {
		t.Fatalf("expected [January March] got %v", months)
	}
}

func TestGlobalWindowRange(t *testing.T) {
	month := time.February
	g := GlobalWindow{Month: &month, Year: 2024}
	start, end, ok := g.Range()
	if !ok {
		t.Fatalf("expected active range")
	}
	if !start.Equal(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %v", start)
	}
	if !end.Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("range must be half-open at first of next month, got %v", end)
	}
	if !inRange(start, start, end) {
		t.Fatalf("start instant must be inside the range")
	}
	if inRange(end, start, end) {
		t.Fatalf("end instant must be outside the range")
	}

	if _, _, ok := (GlobalWindow{}).Range(); ok {
		t.Fatalf("all mode must disable filtering")
	}
}

func TestZeroDatesExcludedFromBuckets(t *testing.T) {
	if inMonth(time.Time{}, 2026, time.August) {
		t.Fatalf("zero instants must not bucket")
	}
	if inRange(time.Time{}, augustAsOf.AddDate(0, -1, 0), augustAsOf) {
		t.Fatalf("zero instants must not fall in ranges")
	}
}
