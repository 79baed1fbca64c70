package conversation

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreCreateAndAppend(t *testing.T) {
	store := NewStore()

	id := store.Create("docu", "sherlock", 10)
	require.NotEmpty(t, id)

	idx, err := store.Append(id, "docu", "Initial analysis of the record.", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	idx, err = store.Append(id, "sherlock", "An alternative reading.", map[string]any{"risk": "low"})
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	history, err := store.History(id)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "docu", history[0].Speaker)
	assert.Equal(t, "sherlock", history[1].Speaker)
	assert.Equal(t, 0, history[0].Iteration)
	assert.Equal(t, 1, history[1].Iteration)
	assert.Equal(t, "low", history[1].Analysis["risk"])
}

func TestStoreAppendUnknownConversation(t *testing.T) {
	store := NewStore()

	_, err := store.Append("no-such-id", "docu", "content", nil)
	require.Error(t, err)

	var notFound *ErrNotFound
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, "no-such-id", notFound.ID)
}

func TestStoreHistoryUnknownConversation(t *testing.T) {
	store := NewStore()

	_, err := store.History("missing")
	var notFound *ErrNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestStoreAppendAfterClose(t *testing.T) {
	store := NewStore()
	id := store.Create("docu", "sherlock", 10)

	_, err := store.Append(id, "docu", "first", nil)
	require.NoError(t, err)

	require.NoError(t, store.Close(id))

	_, err = store.Append(id, "sherlock", "too late", nil)
	var closed *ErrClosed
	assert.ErrorAs(t, err, &closed)

	// Committed turns survive the close.
	history, err := store.History(id)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestStoreHistoryReturnsCopy(t *testing.T) {
	store := NewStore()
	id := store.Create("docu", "sherlock", 10)

	_, err := store.Append(id, "docu", "original", nil)
	require.NoError(t, err)

	history, err := store.History(id)
	require.NoError(t, err)
	history[0].Content = "mutated"

	fresh, err := store.History(id)
	require.NoError(t, err)
	assert.Equal(t, "original", fresh[0].Content)
}

func TestStoreMaxIterationsDefault(t *testing.T) {
	store := NewStore()

	id := store.Create("docu", "sherlock", 0)
	conv, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxIterations, conv.MaxIterations)
}

func TestStoreConcurrentConversationsAreIndependent(t *testing.T) {
	store := NewStore()

	const conversations = 16
	const turnsEach = 20

	ids := make([]string, conversations)
	for i := range ids {
		ids[i] = store.Create("docu", "sherlock", turnsEach)
	}

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			for turn := 0; turn < turnsEach; turn++ {
				speaker := "docu"
				if turn%2 == 1 {
					speaker = "sherlock"
				}
				_, err := store.Append(id, speaker, fmt.Sprintf("conv %d turn %d", i, turn), nil)
				assert.NoError(t, err)
			}
		}(i, id)
	}
	wg.Wait()

	for i, id := range ids {
		history, err := store.History(id)
		require.NoError(t, err)
		require.Len(t, history, turnsEach)
		assert.Equal(t, fmt.Sprintf("conv %d turn 0", i), history[0].Content)
	}
}

func TestStorePurgeRemovesOnlyExpiredClosedConversations(t *testing.T) {
	store := NewStore()

	closed := store.Create("docu", "sherlock", 5)
	require.NoError(t, store.Close(closed))
	inflight := store.Create("docu", "sherlock", 5)

	// Zero max age makes every closed conversation expired.
	assert.Equal(t, 1, store.Purge(0))

	_, err := store.Get(closed)
	var notFound *ErrNotFound
	assert.ErrorAs(t, err, &notFound)

	// The in-flight conversation survives the sweep.
	_, err = store.Get(inflight)
	assert.NoError(t, err)

	assert.Equal(t, 0, store.Purge(0))
}

func TestStorePurgeKeepsRecentClosedConversations(t *testing.T) {
	store := NewStore()

	id := store.Create("docu", "sherlock", 5)
	require.NoError(t, store.Close(id))

	assert.Equal(t, 0, store.Purge(time.Hour))

	_, err := store.Get(id)
	assert.NoError(t, err)
}
