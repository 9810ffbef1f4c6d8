package csvio

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/sheikh-saqib/payments-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-engine/internal/models"
)

var reportHeader = []string{"client", "available", "held", "total", "locked"}

// Writer is a ReportSink producing one CSV row per account.
type Writer struct {
	csv           *csv.Writer
	headerWritten bool
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteAccounts writes the header once, then a row per account, and flushes.
func (w *Writer) WriteAccounts(ctx context.Context, accounts []models.AccountSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !w.headerWritten {
		if err := w.csv.Write(reportHeader); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
		w.headerWritten = true
	}
	for _, a := range accounts {
		row := []string{
			a.Client.String(),
			models.FormatMoney(a.Available),
			models.FormatMoney(a.Held),
			models.FormatMoney(a.Total),
			strconv.FormatBool(a.Locked),
		}
		if err := w.csv.Write(row); err != nil {
			return fmt.Errorf("write csv row for client %d: %w", a.Client, err)
		}
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("flush csv report: %w", err)
	}
	return nil
}

var _ interfaces.ReportSink = (*Writer)(nil)
