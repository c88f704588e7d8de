package snapshot

import (
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/validation"
)

// record is one logical row and the physical line it starts on.
type record struct {
	line int
	text string
}

// Parse reads snapshot text into the state it restores.
// It requires a CASH and a HOLDINGS section; DIVIDENDS may be absent.
// Every failure wraps apperrors.ErrInvalidCSVFormat and names the offending line.
func Parse(data []byte) (model.Snapshot, error) {
	sections, err := splitSections(string(data))
	if err != nil {
		return model.Snapshot{}, err
	}

	var s model.Snapshot

	cash, ok := sections[SectionCash]
	if !ok {
		return model.Snapshot{}, formatError(0, "missing [%s] section", SectionCash)
	}
	if s.Cash, err = parseCash(cash); err != nil {
		return model.Snapshot{}, err
	}

	holdings, ok := sections[SectionHoldings]
	if !ok {
		return model.Snapshot{}, formatError(0, "missing [%s] section", SectionHoldings)
	}
	if s.Holdings, err = parseHoldings(holdings); err != nil {
		return model.Snapshot{}, err
	}

	if s.Dividends, err = parseDividends(sections[SectionDividends]); err != nil {
		return model.Snapshot{}, err
	}

	return s, nil
}

func formatError(line int, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if line > 0 {
		return fmt.Errorf("%w: line %d: %s", apperrors.ErrInvalidCSVFormat, line, msg)
	}
	return fmt.Errorf("%w: %s", apperrors.ErrInvalidCSVFormat, msg)
}

// splitSections groups logical records under their section name.
// Blank records are dropped. Unknown sections are kept and ignored by Parse.
func splitSections(text string) (map[string][]record, error) {
	sections := make(map[string][]record)
	current := ""

	for _, rec := range logicalRecords(text) {
		trimmed := strings.TrimSpace(rec.text)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			current = strings.ToUpper(strings.TrimSpace(trimmed[1 : len(trimmed)-1]))
			if _, dup := sections[current]; dup {
				return nil, formatError(rec.line, "duplicate [%s] section", current)
			}
			sections[current] = []record{}
			continue
		}

		if current == "" {
			return nil, formatError(rec.line, "data outside of any section")
		}
		sections[current] = append(sections[current], rec)
	}

	return sections, nil
}

// logicalRecords splits text into rows. A line break inside a quoted field
// does not end the row. A quote opens a field only at the start of a field,
// so stray quotes inside unquoted text are literal.
func logicalRecords(text string) []record {
	text = strings.TrimPrefix(text, "\ufeff")

	var (
		records    []record
		b          strings.Builder
		line       = 1
		start      = 1
		inQuote    bool
		fieldStart = true
	)

	flush := func() {
		records = append(records, record{line: start, text: strings.TrimSuffix(b.String(), "\r")})
		b.Reset()
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case inQuote && c == '"':
			if i+1 < len(text) && text[i+1] == '"' {
				b.WriteString(`""`)
				i++
				continue
			}
			inQuote = false
		case !inQuote && c == '"' && fieldStart:
			inQuote = true
		case !inQuote && c == '\n':
			flush()
			line++
			start = line
			fieldStart = true
			continue
		case c == '\n':
			line++
		}

		b.WriteByte(c)
		fieldStart = !inQuote && c == ','
	}
	if b.Len() > 0 {
		flush()
	}

	return records
}

// splitFields parses a single row with CSV quoting rules.
func splitFields(rec record) ([]string, error) {
	r := csv.NewReader(strings.NewReader(rec.text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	fields, err := r.Read()
	if err != nil {
		return nil, formatError(rec.line, "%v", err)
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields, nil
}

// dataRecords drops a leading header row whose first column is firstColumn.
func dataRecords(records []record, firstColumn string) []record {
	if len(records) == 0 {
		return records
	}
	head := strings.TrimSpace(strings.SplitN(records[0].text, ",", 2)[0])
	if strings.EqualFold(strings.Trim(head, `"`), firstColumn) {
		return records[1:]
	}
	return records
}

func parseCash(records []record) (float64, error) {
	rows := dataRecords(records, cashHeader[0])
	if len(rows) == 0 {
		return 0, formatError(0, "[%s] section has no amount", SectionCash)
	}
	if len(rows) > 1 {
		return 0, formatError(rows[1].line, "[%s] section has more than one row", SectionCash)
	}

	fields, err := splitFields(rows[0])
	if err != nil {
		return 0, err
	}
	return parseNumber(rows[0].line, "amount", fields[0])
}

func parseHoldings(records []record) ([]model.Holding, error) {
	rows := dataRecords(records, holdingsHeader[0])
	holdings := make([]model.Holding, 0, len(rows))
	seen := make(map[string]int, len(rows))

	for _, rec := range rows {
		fields, err := splitFields(rec)
		if err != nil {
			return nil, err
		}
		if len(fields) < 7 {
			return nil, formatError(rec.line, "holding row has %d columns, want at least 7", len(fields))
		}

		h := model.Holding{
			ID:    fields[0],
			Name:  fields[1],
			Code:  fields[2],
			Class: model.InstrumentClass(strings.ToUpper(fields[3])),
		}
		if h.ID == "" {
			return nil, formatError(rec.line, "holding id is empty")
		}
		if err := validation.ValidateID(h.ID); err != nil {
			return nil, formatError(rec.line, "holding id %q is not a valid id", h.ID)
		}
		if first, dup := seen[h.ID]; dup {
			return nil, formatError(rec.line, "holding id %q already used on line %d", h.ID, first)
		}
		seen[h.ID] = rec.line
		if h.Code == "" {
			return nil, formatError(rec.line, "holding code is empty")
		}
		if err := validation.ValidateCode(h.Code); err != nil {
			return nil, formatError(rec.line, "holding code %q is not a valid code", h.Code)
		}
		if !h.Class.Valid() {
			return nil, formatError(rec.line, "unknown holding type %q", fields[3])
		}

		if h.Quantity, err = parseNumber(rec.line, "quantity", fields[4]); err != nil {
			return nil, err
		}
		if h.AvgPrice, err = parseNumber(rec.line, "avgPrice", fields[5]); err != nil {
			return nil, err
		}
		if h.CurrentPrice, err = parseNumber(rec.line, "currentPrice", fields[6]); err != nil {
			return nil, err
		}

		holdings = append(holdings, h)
	}

	return holdings, nil
}

// parseDividends splits each row on its first four commas only; the rest of
// the row is the note, which may itself contain commas.
func parseDividends(records []record) ([]model.Dividend, error) {
	rows := dataRecords(records, dividendHeader[0])
	dividends := make([]model.Dividend, 0, len(rows))
	seen := make(map[string]int, len(rows))

	for _, rec := range rows {
		parts := strings.SplitN(rec.text, ",", 5)
		if len(parts) < 4 {
			return nil, formatError(rec.line, "dividend row has %d columns, want at least 4", len(parts))
		}

		d := model.Dividend{
			ID:     strings.TrimSpace(parts[0]),
			Ticker: strings.TrimSpace(parts[2]),
		}
		if d.ID == "" {
			return nil, formatError(rec.line, "dividend id is empty")
		}
		if err := validation.ValidateID(d.ID); err != nil {
			return nil, formatError(rec.line, "dividend id %q is not a valid id", d.ID)
		}
		if first, dup := seen[d.ID]; dup {
			return nil, formatError(rec.line, "dividend id %q already used on line %d", d.ID, first)
		}
		seen[d.ID] = rec.line
		if d.Ticker == "" {
			return nil, formatError(rec.line, "dividend ticker is empty")
		}
		if err := validation.ValidateCode(d.Ticker); err != nil {
			return nil, formatError(rec.line, "dividend ticker %q is not a valid code", d.Ticker)
		}

		paid, err := time.Parse(dateLayout, strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, formatError(rec.line, "invalid dividend date %q", parts[1])
		}
		d.PaymentDate = paid

		if d.Amount, err = parseNumber(rec.line, "amount", parts[3]); err != nil {
			return nil, err
		}
		if d.Amount < 0 {
			return nil, formatError(rec.line, "dividend amount %v is negative", d.Amount)
		}

		if len(parts) == 5 {
			d.Note = unquoteNote(parts[4])
		}

		dividends = append(dividends, d)
	}

	return dividends, nil
}

// unquoteNote reverses quoteNote. Unquoted notes are returned as is.
func unquoteNote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return strings.ReplaceAll(s[1:len(s)-1], `""`, `"`)
	}
	return s
}

func parseNumber(line int, column, s string) (float64, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, formatError(line, "invalid %s %q", column, s)
	}
	return v, nil
}
