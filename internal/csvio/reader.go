// Package csvio reads ledger events from CSV and writes account reports as CSV.
package csvio

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sheikh-saqib/payments-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-engine/internal/models"
)

// Column names of the input file.
const (
	ColumnType   = "type"
	ColumnClient = "client"
	ColumnTx     = "tx"
	ColumnAmount = "amount"
)

// Reader is a RecordSource over a CSV stream with a header row.
// Columns may appear in any order and rows may omit a trailing empty amount.
type Reader struct {
	csv     *csv.Reader
	columns map[string]int
}

// NewReader wraps r. The header is read on the first call to Next.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	return &Reader{csv: cr}
}

// Next returns the next valid event, io.EOF at the end of input, or a
// *models.ValidationError for a row that cannot become an event.
func (r *Reader) Next(ctx context.Context) (models.Event, error) {
	if err := ctx.Err(); err != nil {
		return models.Event{}, err
	}
	if r.columns == nil {
		if err := r.readHeader(); err != nil {
			return models.Event{}, err
		}
	}

	record, err := r.csv.Read()
	if err != nil {
		return models.Event{}, classify(err)
	}
	return r.parse(record)
}

func (r *Reader) readHeader() error {
	header, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("read csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{ColumnType, ColumnClient, ColumnTx} {
		if _, ok := columns[required]; !ok {
			return fmt.Errorf("csv header is missing column %q", required)
		}
	}
	r.columns = columns
	return nil
}

// classify separates malformed rows, which are skipped, from I/O failures, which are fatal.
func classify(err error) error {
	if errors.Is(err, io.EOF) {
		return io.EOF
	}
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &models.ValidationError{Reason: fmt.Sprintf("line %d: malformed csv row", parseErr.Line), Err: err}
	}
	return fmt.Errorf("read csv record: %w", err)
}

func (r *Reader) field(record []string, column string) string {
	idx, ok := r.columns[column]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func (r *Reader) parse(record []string) (models.Event, error) {
	line, _ := r.csv.FieldPos(0)
	invalid := func(reason string, err error) error {
		return &models.ValidationError{Reason: fmt.Sprintf("line %d: %s", line, reason), Err: err}
	}

	kind, err := models.ParseKind(r.field(record, ColumnType))
	if err != nil {
		return models.Event{}, invalid("bad type", err)
	}
	client, err := strconv.ParseUint(r.field(record, ColumnClient), 10, 16)
	if err != nil {
		return models.Event{}, invalid("bad client", err)
	}
	tx, err := strconv.ParseUint(r.field(record, ColumnTx), 10, 32)
	if err != nil {
		return models.Event{}, invalid("bad tx", err)
	}

	var amount *models.Money
	if raw := r.field(record, ColumnAmount); raw != "" {
		m, err := models.NewMoney(raw)
		if err != nil {
			return models.Event{}, invalid("bad amount", err)
		}
		amount = &m
	}

	ev, err := models.NewEvent(models.TransactionID(tx), models.ClientID(client), kind, amount)
	if err != nil {
		return models.Event{}, invalid("amount presence", err)
	}
	return ev, nil
}

var _ interfaces.RecordSource = (*Reader)(nil)
