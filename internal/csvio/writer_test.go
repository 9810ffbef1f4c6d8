package csvio

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/sheikh-saqib/payments-engine/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterRendersFixedScale(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	err := w.WriteAccounts(context.Background(), []models.AccountSnapshot{
		{Client: 1, Available: models.MustMoney("2"), Held: models.MustMoney("0"), Total: models.MustMoney("2"), Locked: true},
		{Client: 2, Available: models.MustMoney("13.5"), Held: models.MustMoney("1.25"), Total: models.MustMoney("14.75")},
	})
	require.NoError(t, err)

	want := "client,available,held,total,locked\n" +
		"1,2.0000,0.0000,2.0000,true\n" +
		"2,13.5000,1.2500,14.7500,false\n"
	assert.Equal(t, want, buf.String())
}

func TestWriterHeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteAccounts(context.Background(), nil))
	require.NoError(t, w.WriteAccounts(context.Background(), []models.AccountSnapshot{{Client: 3}}))

	assert.Equal(t, "client,available,held,total,locked\n3,0.0000,0.0000,0.0000,false\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("stdout closed")
}

func TestWriterSurfacesWriteErrors(t *testing.T) {
	err := NewWriter(failingWriter{}).WriteAccounts(context.Background(), []models.AccountSnapshot{{Client: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stdout closed")
}
