// Package table serializes screening reports as a single-row CSV table.
package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kailas-cloud/lexiscreen/internal/domain"
	"github.com/kailas-cloud/lexiscreen/internal/domain/report"
	"github.com/kailas-cloud/lexiscreen/internal/domain/risk"
)

// ContentType is the MIME type of the export.
const ContentType = "text/csv; charset=utf-8"

// Header is the fixed column order.
var Header = []string{"timestamp", "age", "predicted_class", "probability_dyslexia", "risk_level"}

// TimeLayout is the timestamp format: RFC 3339, UTC, second resolution.
const TimeLayout = time.RFC3339

// Record is one decoded table row.
type Record struct {
	Timestamp      time.Time
	Age            float64
	PredictedClass int
	Probability    float64
	RiskLevel      risk.Tier
}

// Encode writes the header and one data row for r.
// The probability is written as the shortest exact decimal, never rounded.
func Encode(w io.Writer, r report.Report) error {
	cw := csv.NewWriter(w)
	row := []string{
		r.Timestamp().UTC().Format(TimeLayout),
		strconv.FormatFloat(r.Age(), 'f', -1, 64),
		strconv.Itoa(r.PredictedClass()),
		decimal.NewFromFloat(r.Probability()).String(),
		r.Tier().String(),
	}
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.Write(row); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Marshal returns the encoded table.
func Marshal(r report.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a table produced by Encode. The header must match exactly.
func Decode(rd io.Reader) ([]Record, error) {
	cr := csv.NewReader(rd)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty table", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("%w: read header: %w", domain.ErrInvalidInput, err)
	}
	if !slices.Equal(header, Header) {
		return nil, fmt.Errorf("%w: unexpected header %v", domain.ErrInvalidInput, header)
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read row %d: %w", domain.ErrInvalidInput, line, err)
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", domain.ErrInvalidInput, line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string) (Record, error) {
	ts, err := time.Parse(TimeLayout, row[0])
	if err != nil {
		return Record{}, fmt.Errorf("timestamp: %w", err)
	}
	age, err := strconv.ParseFloat(row[1], 64)
	if err != nil {
		return Record{}, fmt.Errorf("age: %w", err)
	}
	class, err := strconv.Atoi(row[2])
	if err != nil {
		return Record{}, fmt.Errorf("predicted_class: %w", err)
	}
	d, err := decimal.NewFromString(row[3])
	if err != nil {
		return Record{}, fmt.Errorf("probability_dyslexia: %w", err)
	}
	p, _ := d.Float64()
	tier, err := risk.Parse(row[4])
	if err != nil {
		return Record{}, fmt.Errorf("risk_level: %w", err)
	}
	return Record{
		Timestamp:      ts.UTC(),
		Age:            age,
		PredictedClass: class,
		Probability:    p,
		RiskLevel:      tier,
	}, nil
}
