package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nara/giftinator/internal/types"
)

func TestMemoryRepository_CreateAndGet(t *testing.T) {
	repo := NewMemoryRepository()

	s, err := repo.Create()
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.Empty(t, s.Answers)
	assert.False(t, s.Closed())

	got, err := repo.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
}

func TestMemoryRepository_GetUnknown(t *testing.T) {
	repo := NewMemoryRepository()

	_, err := repo.Get(uuid.New())
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestMemoryRepository_AppendContiguous(t *testing.T) {
	repo := NewMemoryRepository()
	s, err := repo.Create()
	require.NoError(t, err)

	for step := 1; step <= 3; step++ {
		updated, err := repo.Append(s.ID, step, types.Answer{Answer: fmt.Sprintf("a%d", step)})
		require.NoError(t, err)
		assert.Len(t, updated.Answers, step)
	}
}

func TestMemoryRepository_AppendStepMismatch(t *testing.T) {
	repo := NewMemoryRepository()
	s, err := repo.Create()
	require.NoError(t, err)

	_, err = repo.Append(s.ID, 1, types.Answer{Answer: "first"})
	require.NoError(t, err)

	// Duplicate submission of the same step is rejected, not reordered.
	_, err = repo.Append(s.ID, 1, types.Answer{Answer: "again"})
	var mismatch *StepMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 2, mismatch.Expected)
	assert.Equal(t, 1, mismatch.Got)

	// Skipping ahead is rejected too.
	_, err = repo.Append(s.ID, 5, types.Answer{Answer: "skip"})
	require.ErrorAs(t, err, &mismatch)

	got, err := repo.Get(s.ID)
	require.NoError(t, err)
	assert.Len(t, got.Answers, 1)
}

func TestMemoryRepository_CloseWithReveal(t *testing.T) {
	repo := NewMemoryRepository()
	s, err := repo.Create()
	require.NoError(t, err)

	reveal := &types.RevealDocument{Reveal: true, Archetype: "The Cozy Curator"}
	require.NoError(t, repo.CloseWithReveal(s.ID, reveal))

	got, err := repo.Get(s.ID)
	require.NoError(t, err)
	assert.True(t, got.Closed())
	assert.Equal(t, "The Cozy Curator", got.Reveal.Archetype)

	// Closed sessions refuse appends and a second reveal.
	var closed *SessionClosedError
	_, err = repo.Append(s.ID, 1, types.Answer{Answer: "late"})
	require.ErrorAs(t, err, &closed)
	err = repo.CloseWithReveal(s.ID, reveal)
	require.ErrorAs(t, err, &closed)
}

func TestMemoryRepository_SnapshotIsolation(t *testing.T) {
	repo := NewMemoryRepository()
	s, err := repo.Create()
	require.NoError(t, err)

	first, err := repo.Append(s.ID, 1, types.Answer{Answer: "original"})
	require.NoError(t, err)

	// Mutating the returned snapshot must not touch the stored session.
	first.Answers[0].Answer = "mutated"

	got, err := repo.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Answers[0].Answer)
}

func TestMemoryRepository_ConcurrentDuplicateAppend(t *testing.T) {
	repo := NewMemoryRepository()
	s, err := repo.Create()
	require.NoError(t, err)

	const racers = 8
	var wg sync.WaitGroup
	errs := make([]error, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Append(s.ID, 1, types.Answer{Answer: fmt.Sprintf("racer-%d", i)})
		}(i)
	}
	wg.Wait()

	// Exactly one racer wins step 1; the rest lose with a step mismatch.
	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			var mismatch *StepMismatchError
			assert.ErrorAs(t, err, &mismatch)
		}
	}
	assert.Equal(t, 1, wins)

	got, err := repo.Get(s.ID)
	require.NoError(t, err)
	assert.Len(t, got.Answers, 1)
}
