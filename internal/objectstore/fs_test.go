package objectstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "clearway/pkg/domain"
	"clearway/pkg/sentinel"
)

func TestFilesystemPutGet(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.PutObject(ctx, "submissions/a/record.json", "application/json", []byte(`{"a":1}`)))

	data, err := store.GetObject(ctx, "submissions/a/record.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(data))

	// Overwrite replaces the prior object.
	require.NoError(t, store.PutObject(ctx, "submissions/a/record.json", "application/json", []byte(`{"a":2}`)))
	data, err = store.GetObject(ctx, "submissions/a/record.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(data))

	_, err = store.GetObject(ctx, "submissions/b/record.json")
	assert.True(t, errors.Is(err, sentinel.ErrNotFound))
}

func TestFilesystemListByPrefix(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	caseID := id.NewCaseID()
	other := id.NewCaseID()

	require.NoError(t, store.PutObject(ctx, SubmissionKey(caseID), "application/json", []byte(`{}`)))
	require.NoError(t, store.PutObject(ctx, SummaryKey(caseID), "application/json", []byte(`{}`)))
	require.NoError(t, store.PutObject(ctx, SubmissionKey(other), "application/json", []byte(`{}`)))

	keys, err := store.ListObjects(ctx, "submissions/"+caseID.String()+"/")
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, SubmissionKey(caseID), keys[0])

	keys, err = store.ListObjects(ctx, "submissions/")
	require.NoError(t, err)
	assert.Len(t, keys, 2)
}
