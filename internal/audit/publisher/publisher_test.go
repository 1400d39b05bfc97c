package publisher

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clearway/internal/audit"
	"clearway/internal/audit/store/memory"
	id "clearway/pkg/domain"
	dErrors "clearway/pkg/domain-errors"
)

func TestEmitSync(t *testing.T) {
	store := memory.New()
	pub := New(store)
	caseID := id.NewCaseID()

	err := pub.Emit(context.Background(), audit.Event{
		CaseID: caseID,
		Action: audit.ActionCaseSubmitted,
		Email:  "jane@example.com",
	})
	require.NoError(t, err)

	events, err := pub.List(context.Background(), caseID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionCaseSubmitted, events[0].Action)
	assert.False(t, events[0].Timestamp.IsZero(), "timestamp should be stamped on emit")
}

func TestEmitAsyncDrainsOnClose(t *testing.T) {
	store := memory.New()
	pub := New(store, WithAsyncBuffer(16), WithLogger(slog.New(slog.DiscardHandler)))
	caseID := id.NewCaseID()

	for i := 0; i < 5; i++ {
		require.NoError(t, pub.Emit(context.Background(), audit.Event{
			CaseID: caseID,
			Action: audit.ActionCaseScreened,
		}))
	}
	pub.Close()

	events, err := store.ListByCase(context.Background(), caseID)
	require.NoError(t, err)
	assert.Len(t, events, 5)
}

func TestEmitAsyncDropsWhenFull(t *testing.T) {
	store := blockingStore{release: make(chan struct{})}
	pub := New(store, WithAsyncBuffer(1))
	caseID := id.NewCaseID()

	// The worker stalls on the first event, so the buffer fills and a
	// later emit has to drop.
	var dropped error
	for i := 0; i < 100; i++ {
		dropped = pub.Emit(context.Background(), audit.Event{CaseID: caseID})
		if dropped != nil {
			break
		}
	}
	require.Error(t, dropped)
	assert.True(t, dErrors.HasCode(dropped, dErrors.CodeInternal))

	close(store.release)
	pub.Close()
}

// blockingStore stalls Append until released, simulating a slow sink.
type blockingStore struct {
	release chan struct{}
}

func (s blockingStore) Append(_ context.Context, _ audit.Event) error {
	<-s.release
	return nil
}

func (s blockingStore) ListByCase(_ context.Context, _ id.CaseID) ([]audit.Event, error) {
	return nil, nil
}
