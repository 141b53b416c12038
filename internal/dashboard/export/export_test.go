package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/tembo-ops/tembo-ops/internal/dashboard"
)

func TestWriteKPICSV(t *testing.T) {
	res := &dashboard.Result{
		Currency: "USD",
		KPI: dashboard.KPIBundle{
			Revenue:   12500.5,
			Expenses:  4300,
			NetProfit: 8200.5,
		},
	}
	buf := &bytes.Buffer{}
	if err := WriteKPICSV(buf, res); err != nil {
		t.Fatalf("kpi csv error: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	if err != nil {
		t.Fatalf("csv read error: %v", err)
	}
	if len(records) < 2 {
		t.Fatalf("expected data rows, got %d", len(records))
	}
	if records[1][0] != "Currency" || records[1][1] != "USD" {
		t.Fatalf("unexpected first row %v", records[1])
	}
	found := false
	for _, rec := range records {
		if rec[0] == "Revenue" {
			found = true
			if rec[1] != "12,500.50" {
				t.Fatalf("revenue formatted as %q", rec[1])
			}
		}
	}
	if !found {
		t.Fatal("revenue row missing")
	}
}

func TestWriteSeriesCSV(t *testing.T) {
	points := []dashboard.SeriesPoint{
		{Label: "Jan", Amount: 100},
		{Label: "Feb", Amount: 250.25},
	}
	buf := &bytes.Buffer{}
	if err := WriteSeriesCSV(buf, "Revenue", points); err != nil {
		t.Fatalf("series csv error: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	if err != nil {
		t.Fatalf("csv read error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus two rows, got %d", len(records))
	}
	if records[2][0] != "Feb" || records[2][1] != "250.25" {
		t.Fatalf("unexpected row %v", records[2])
	}
}

func TestWriteRankingCSV(t *testing.T) {
	ranking := []dashboard.VehicleRevenue{
		{Plate: "UAX 123A", Name: "Toyota Land Cruiser", Capacity: dashboard.CapacitySevenSeater, Trips: 4, Revenue: 8000},
	}
	buf := &bytes.Buffer{}
	if err := WriteRankingCSV(buf, ranking); err != nil {
		t.Fatalf("ranking csv error: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	if err != nil {
		t.Fatalf("csv read error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus one row, got %d", len(records))
	}
	if records[1][4] != "8,000.00" {
		t.Fatalf("unexpected revenue cell %q", records[1][4])
	}
}
