package state

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySaveAndLoad(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.SaveState(ctx, map[string][]byte{KeyVariables: []byte(`{"x":5}`)}))

	got, err := m.LoadState(ctx, KeyVariables, KeyHistory)
	require.NoError(t, err)
	assert.Equal(t, `{"x":5}`, string(got[KeyVariables]))
	assert.NotContains(t, got, KeyHistory)
	assert.Equal(t, 1, m.Saves())
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	doc := []byte(`{"x":5}`)
	require.NoError(t, m.SaveState(ctx, map[string][]byte{KeyVariables: doc}))
	doc[2] = 'y'

	got, err := m.LoadState(ctx, KeyVariables)
	require.NoError(t, err)
	assert.Equal(t, `{"x":5}`, string(got[KeyVariables]))
}

func TestMemoryFailure(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	boom := errors.New("disk full")

	m.SetFailure(boom)
	_, err := m.LoadState(ctx, KeyVariables)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, m.SaveState(ctx, map[string][]byte{}), boom)

	m.SetFailure(nil)
	_, err = m.LoadState(ctx, KeyVariables)
	assert.NoError(t, err)
	assert.Equal(t, 0, m.Saves())
}

func TestBackendImplementations(t *testing.T) {
	var _ Backend = NewMemory()
	var _ Backend = (*sessionBackend)(nil)
}
