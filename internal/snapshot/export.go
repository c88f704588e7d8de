// Package snapshot reads and writes the sectioned CSV portfolio snapshot.
//
// A snapshot is a sequence of sections, each introduced by a "[NAME]" line,
// followed by a header row and data rows, and separated by a blank line.
// Only CASH, HOLDINGS and DIVIDENDS are read back; SUMMARY and
// YEARLY_PERFORMANCE are derived and written for human readers.
package snapshot

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/valuation"
)

// Section names.
const (
	SectionSummary   = "SUMMARY"
	SectionCash      = "CASH"
	SectionHoldings  = "HOLDINGS"
	SectionYearly    = "YEARLY_PERFORMANCE"
	SectionDividends = "DIVIDENDS"
)

const dateLayout = "2006-01-02"

var (
	summaryHeader  = []string{"totalAssets", "stockValue", "bondValue", "cashValue", "totalCost", "totalProfit", "totalRoi", "stockRatio", "bondRatio"}
	cashHeader     = []string{"amount"}
	holdingsHeader = []string{"id", "name", "code", "type", "quantity", "avgPrice", "currentPrice", "cost", "presentValue", "profit", "roi"}
	yearlyHeader   = []string{"year", "amount", "received", "pending", "growth"}
	dividendHeader = []string{"id", "date", "ticker", "amount", "note"}
)

// Export renders s as snapshot text. Derived sections are computed with rules,
// and dividends are split into received and pending as of asOf.
func Export(s model.Snapshot, rules valuation.Rules, asOf time.Time) []byte {
	calculated := rules.EnrichAll(s.Holdings)
	summary := valuation.SummarizePortfolio(calculated, s.Cash)

	var buf bytes.Buffer

	writeSection(&buf, SectionSummary, summaryHeader, [][]string{{
		formatNumber(summary.TotalAssets),
		formatNumber(summary.StockValue),
		formatNumber(summary.BondValue),
		formatNumber(summary.CashValue),
		formatNumber(summary.TotalCost),
		formatNumber(summary.TotalProfit),
		formatPercent(summary.TotalROI),
		formatPercent(summary.StockRatio),
		formatPercent(summary.BondRatio),
	}})

	writeSection(&buf, SectionCash, cashHeader, [][]string{{formatNumber(s.Cash)}})

	rows := make([][]string, 0, len(calculated))
	for _, h := range calculated {
		rows = append(rows, []string{
			h.ID,
			h.Name,
			h.Code,
			string(h.Class),
			formatNumber(h.Quantity),
			formatNumber(h.AvgPrice),
			formatNumber(h.CurrentPrice),
			formatNumber(h.Cost),
			formatNumber(h.PresentValue),
			formatNumber(h.Profit),
			formatPercent(h.ROI),
		})
	}
	writeSection(&buf, SectionHoldings, holdingsHeader, rows)

	yearly := valuation.YearlyTotals(s.Dividends, asOf)
	rows = make([][]string, 0, len(yearly))
	for _, y := range yearly {
		rows = append(rows, []string{
			strconv.Itoa(y.Year),
			formatNumber(y.Amount),
			formatNumber(y.Received),
			formatNumber(y.Pending),
			y.GrowthLabel,
		})
	}
	writeSection(&buf, SectionYearly, yearlyHeader, rows)

	buf.WriteString("[" + SectionDividends + "]\n")
	buf.WriteString(strings.Join(dividendHeader, ",") + "\n")
	for _, d := range s.Dividends {
		buf.WriteString(strings.Join([]string{
			d.ID,
			d.PaymentDate.UTC().Format(dateLayout),
			d.Ticker,
			formatNumber(d.Amount),
			quoteNote(d.Note),
		}, ","))
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}

// writeSection writes a bracketed section with CSV-quoted rows and a trailing blank line.
func writeSection(buf *bytes.Buffer, name string, header []string, rows [][]string) {
	buf.WriteString("[" + name + "]\n")

	w := csv.NewWriter(buf)
	// Write only fails when the underlying writer does; bytes.Buffer never does.
	_ = w.Write(header)
	_ = w.WriteAll(rows)

	buf.WriteByte('\n')
}

// quoteNote wraps a note in double quotes, doubling embedded quotes, when it
// holds a delimiter, a quote or a line break.
func quoteNote(note string) string {
	if !strings.ContainsAny(note, ",\"\r\n") {
		return note
	}
	return `"` + strings.ReplaceAll(note, `"`, `""`) + `"`
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
