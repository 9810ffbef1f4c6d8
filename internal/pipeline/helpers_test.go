package pipeline

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/sheikh-saqib/payments-engine/internal/models"
)

// item is one scripted result of sliceSource.Next.
type item struct {
	ev  models.Event
	err error
}

type sliceSource struct {
	mu    sync.Mutex
	items []item
	pos   int
}

func (s *sliceSource) Next(context.Context) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos >= len(s.items) {
		return models.Event{}, io.EOF
	}
	it := s.items[s.pos]
	s.pos++
	return it.ev, it.err
}

func fundEvent(kind models.Kind, client models.ClientID, id models.TransactionID, amount string) item {
	m := models.MustMoney(amount)
	ev, err := models.NewEvent(id, client, kind, &m)
	if err != nil {
		panic(err)
	}
	return item{ev: ev}
}

func disputeEvent(kind models.Kind, client models.ClientID, id models.TransactionID) item {
	ev, err := models.NewEvent(id, client, kind, nil)
	if err != nil {
		panic(err)
	}
	return item{ev: ev}
}

func rejected(reason string) item {
	return item{err: &models.ValidationError{Reason: reason}}
}

type failingSink struct{ err error }

func (f failingSink) WriteAccounts(context.Context, []models.AccountSnapshot) error {
	return f.err
}

var errBrokenPipe = errors.New("broken pipe")
