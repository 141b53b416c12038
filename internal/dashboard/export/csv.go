// Package export serialises dashboard results for download.
package export

import (
	"encoding/csv"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tembo-ops/tembo-ops/internal/dashboard"
)

var printer = message.NewPrinter(language.English)

func formatAmount(v float64) string {
	return printer.Sprintf("%.2f", v)
}

// WriteKPICSV serialises the headline KPI bundle to CSV.
func WriteKPICSV(w io.Writer, res *dashboard.Result) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Metric", "Value"}); err != nil {
		return err
	}
	records := [][]string{
		{"Currency", res.Currency},
		{"Revenue", formatAmount(res.KPI.Revenue)},
		{"Expenses", formatAmount(res.KPI.Expenses)},
		{"Net Profit", formatAmount(res.KPI.NetProfit)},
		{"Revenue MTD", formatAmount(res.KPI.RevenueMTD)},
		{"Revenue YTD", formatAmount(res.KPI.RevenueYTD)},
		{"Fleet Utilization %", printer.Sprintf("%d", res.KPI.FleetUtilizationPct)},
		{"Total Vehicles", printer.Sprintf("%d", res.KPI.TotalVehicles)},
		{"Active Bookings", printer.Sprintf("%d", res.KPI.ActiveBookings)},
		{"Outstanding Amount", formatAmount(res.KPI.OutstandingAmount)},
		{"Outstanding Count", printer.Sprintf("%d", res.KPI.OutstandingCount)},
		{"Average Booking Value", formatAmount(res.KPI.AverageBookingValue)},
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteSeriesCSV emits a monthly amount series as CSV.
func WriteSeriesCSV(w io.Writer, header string, points []dashboard.SeriesPoint) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Month", header}); err != nil {
		return err
	}
	for _, point := range points {
		if err := writer.Write([]string{point.Label, formatAmount(point.Amount)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCategoryCSV emits the expense category breakdown as CSV.
func WriteCategoryCSV(w io.Writer, totals []dashboard.CategoryTotal) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Category", "Amount"}); err != nil {
		return err
	}
	for _, total := range totals {
		if err := writer.Write([]string{total.Category, formatAmount(total.Amount)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteRankingCSV emits the per-vehicle revenue ranking as CSV.
func WriteRankingCSV(w io.Writer, ranking []dashboard.VehicleRevenue) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Plate", "Vehicle", "Capacity", "Trips", "Revenue"}); err != nil {
		return err
	}
	for _, row := range ranking {
		if err := writer.Write([]string{
			row.Plate,
			row.Name,
			string(row.Capacity),
			printer.Sprintf("%d", row.Trips),
			formatAmount(row.Revenue),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
