package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/vendor-normalizer/internal/converter"
	"github.com/ginjaninja78/vendor-normalizer/internal/schema"
	"github.com/ginjaninja78/vendor-normalizer/internal/types"
)

func workspace() converter.Workspace {
	table := &types.Table{
		Columns: []string{"SKU", "Name", "Price", "Date"},
		Rows:    []types.Row{{"SKU": "A1", "Name": "Widget", "Price": "1", "Date": "2024-01-01"}},
	}
	return converter.Load(table, schema.Default(), nil)
}

func TestCreateGetDelete(t *testing.T) {
	s := NewStore(0)
	id := s.Create(workspace())
	require.NotEmpty(t, id)

	ws, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, []string{"SKU", "Name", "Price", "Date"}, ws.Table().Columns)
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Delete(id))
	_, err = s.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(id), ErrNotFound)
}

func TestUpdateReplacesSnapshot(t *testing.T) {
	s := NewStore(0)
	id := s.Create(workspace())
	before, err := s.Get(id)
	require.NoError(t, err)

	after, err := s.Update(id, func(ws converter.Workspace) (converter.Workspace, error) {
		return ws.SetRequired("product_name", "Name").SetRequired("unit_price", "Price"), nil
	})
	require.NoError(t, err)
	assert.True(t, after.IsComplete())
	assert.False(t, before.IsComplete())

	stored, err := s.Get(id)
	require.NoError(t, err)
	assert.True(t, stored.IsComplete())
}

func TestUpdateErrorKeepsSnapshot(t *testing.T) {
	s := NewStore(0)
	id := s.Create(workspace())
	boom := errors.New("boom")

	_, err := s.Update(id, func(ws converter.Workspace) (converter.Workspace, error) {
		return ws.ToggleOptional("Name"), boom
	})
	assert.ErrorIs(t, err, boom)

	stored, err := s.Get(id)
	require.NoError(t, err)
	assert.Empty(t, stored.State().Optional())

	_, err = s.Update("nope", func(ws converter.Workspace) (converter.Workspace, error) { return ws, nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(time.Minute)
	s.now = func() time.Time { return now }

	id := s.Create(workspace())
	now = now.Add(30 * time.Second)
	_, err := s.Update(id, func(ws converter.Workspace) (converter.Workspace, error) { return ws, nil })
	require.NoError(t, err)

	now = now.Add(45 * time.Second)
	_, err = s.Get(id)
	require.NoError(t, err, "updates refresh the idle timer")

	now = now.Add(2 * time.Minute)
	_, err = s.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, s.Len())
}

func TestReadsKeepSessionAlive(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(time.Minute)
	s.now = func() time.Time { return now }

	id := s.Create(workspace())
	for i := 0; i < 5; i++ {
		now = now.Add(40 * time.Second)
		_, err := s.Get(id)
		require.NoError(t, err, "read %d", i+1)
	}

	now = now.Add(61 * time.Second)
	_, err := s.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentToggles(t *testing.T) {
	s := NewStore(0)
	id := s.Create(workspace())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Update(id, func(ws converter.Workspace) (converter.Workspace, error) {
				return ws.ToggleOptional("Name"), nil
			})
			_, _ = s.Get(id)
		}()
	}
	wg.Wait()

	ws, err := s.Get(id)
	require.NoError(t, err)
	assert.Empty(t, ws.State().Optional(), "an even number of toggles leaves nothing selected")
}
