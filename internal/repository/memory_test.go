package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/availability"
	"github.com/iliyamo/table-reservation/internal/model"
)

func TestMemoryUpdateSerialisesPerRow(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepo()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &model.Reservation{ID: "r1", Code: "K3FZ9A", Date: "2024-05-17",
		Status: model.StatusActive, Salon: "Avlu Salon", Masa: "Masa 7"}))

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Update(ctx, "r1", func(r *model.Reservation, store availability.Store) (bool, error) {
				// Reads through the store must not block on the row lock.
				if _, err := store.QueryActive(ctx, r.Salon, r.Masa, r.Date); err != nil {
					return false, err
				}
				r.History = append(r.History, model.HistoryEntry{ID: fmt.Sprintf("h%d", i)})
				return true, nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Len(t, got.History, writers)
}

func TestMemoryList(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepo()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &model.Reservation{ID: "a", Code: "AAAAAA", FullName: "Ayşe Yılmaz",
		Phone: "+905321234567", Date: "2024-05-17", Status: model.StatusActive}))
	require.NoError(t, repo.Create(ctx, &model.Reservation{ID: "b", Code: "BBBBBB", FullName: "Mehmet Demir",
		Phone: "+905559876543", Date: "2024-05-17", Status: model.StatusCancelled}))

	got, err := repo.List(ctx, ListFilter{Date: "2024-05-17", Query: "bbb"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	got, err = repo.List(ctx, ListFilter{Date: "2024-05-17", Status: model.StatusActive})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}
