package memory

import (
	"sync"
	"testing"
	"time"

	"registrar/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepo_GetMissing(t *testing.T) {
	repo := NewSessionRepo()

	s, ok := repo.Get(1)

	assert.False(t, ok)
	assert.Nil(t, s)
}

func TestSessionRepo_SaveOverwrites(t *testing.T) {
	repo := NewSessionRepo()
	now := time.Now()

	first := domain.NewSession(1, now)
	first.Name = "Old Agency"
	first.State = domain.StateAwaitingContact
	repo.Save(first)

	repo.Save(domain.NewSession(1, now))

	s, ok := repo.Get(1)
	require.True(t, ok)
	assert.Equal(t, domain.StateAwaitingName, s.State)
	assert.Empty(t, s.Name)
	assert.Equal(t, 1, repo.Len())
}

func TestSessionRepo_GetReturnsCopy(t *testing.T) {
	repo := NewSessionRepo()
	repo.Save(domain.NewSession(1, time.Now()))

	s, ok := repo.Get(1)
	require.True(t, ok)
	s.Name = "changed"

	stored, _ := repo.Get(1)
	assert.Empty(t, stored.Name)
}

func TestSessionRepo_Delete(t *testing.T) {
	repo := NewSessionRepo()
	repo.Save(domain.NewSession(1, time.Now()))
	repo.Save(domain.NewSession(2, time.Now()))

	repo.Delete(1)
	repo.Delete(3)

	_, ok := repo.Get(1)
	assert.False(t, ok)
	_, ok = repo.Get(2)
	assert.True(t, ok)
}

func TestSessionRepo_DeleteIdle(t *testing.T) {
	repo := NewSessionRepo()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	repo.Save(domain.NewSession(1, base))
	repo.Save(domain.NewSession(2, base.Add(2*time.Hour)))
	repo.Save(domain.NewSession(3, base.Add(30*time.Minute)))

	removed := repo.DeleteIdle(base.Add(time.Hour))

	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, repo.Len())
	_, ok := repo.Get(2)
	assert.True(t, ok)
}

func TestSessionRepo_ConcurrentUsers(t *testing.T) {
	repo := NewSessionRepo()

	var wg sync.WaitGroup
	for i := int64(0); i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			repo.Save(domain.NewSession(id, time.Now()))
			repo.Get(id)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, repo.Len())
}
