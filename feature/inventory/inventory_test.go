package inventory

import (
	"errors"
	"math"
	"sync"
	"testing"

	"furniture-store/core/apperror"
	"furniture-store/feature/catalog"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func chair(t *testing.T, name string, qty int) catalog.Item {
	t.Helper()
	it, err := catalog.NewChair(name, decimal.NewFromInt(120), qty, true)
	require.NoError(t, err)
	return it
}

func sofa(t *testing.T, name string, qty int) catalog.Item {
	t.Helper()
	it, err := catalog.NewSofa(name, decimal.NewFromInt(900), qty, 3, false)
	require.NoError(t, err)
	return it
}

func TestAdd_MergesByName(t *testing.T) {
	inv := New(zap.NewNop())

	_, err := inv.Add(chair(t, "Oak Chair", 5))
	require.NoError(t, err)
	merged, err := inv.Add(chair(t, "Oak Chair", 3))
	require.NoError(t, err)

	assert.Equal(t, 8, merged.Quantity)
	assert.Len(t, inv.SearchByType(catalog.KindChair), 1)
}

func TestAdd_RejectsInvalid(t *testing.T) {
	inv := New(zap.NewNop())

	_, err := inv.Add(chair(t, "Oak Chair", 0))
	assert.ErrorIs(t, err, apperror.ErrInvalidQuantity)

	bad := chair(t, "Oak Chair", 1)
	bad.Price = decimal.NewFromInt(-5)
	_, err = inv.Add(bad)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestAdd_RejectsStockOverflow(t *testing.T) {
	inv := New(zap.NewNop())
	events := 0
	_, err := inv.Add(chair(t, "Oak Chair", math.MaxInt))
	require.NoError(t, err)
	inv.Subscribe(func(Event) error { events++; return nil })

	_, err = inv.Add(chair(t, "Oak Chair", 1))
	assert.ErrorIs(t, err, apperror.ErrValidation)

	err = inv.Restock([]catalog.Item{chair(t, "Oak Chair", 1)})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	got, err := inv.Get(catalog.KindChair, "Oak Chair")
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, got.Quantity)
	assert.Zero(t, events)
}

func TestQuantityIsAddsMinusRemoves(t *testing.T) {
	inv := New(zap.NewNop())
	ops := []struct {
		add bool
		qty int
	}{
		{true, 10}, {false, 3}, {true, 4}, {false, 6}, {false, 2}, {true, 1},
	}

	expected := 0
	for _, op := range ops {
		if op.add {
			_, err := inv.Add(chair(t, "Oak Chair", op.qty))
			require.NoError(t, err)
			expected += op.qty
		} else {
			_, err := inv.Remove(catalog.KindChair, "Oak Chair", op.qty)
			require.NoError(t, err)
			expected -= op.qty
		}
		got, err := inv.Get(catalog.KindChair, "Oak Chair")
		require.NoError(t, err)
		assert.Equal(t, expected, got.Quantity)
		assert.GreaterOrEqual(t, got.Quantity, 0)
	}
}

func TestRemove(t *testing.T) {
	inv := New(zap.NewNop())
	_, err := inv.Add(chair(t, "Oak Chair", 2))
	require.NoError(t, err)

	t.Run("Not Found", func(t *testing.T) {
		_, err := inv.Remove(catalog.KindChair, "Pine Chair", 1)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		_, err = inv.Remove(catalog.KindBed, "Oak Chair", 1)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("Insufficient", func(t *testing.T) {
		_, err := inv.Remove(catalog.KindChair, "Oak Chair", 3)
		assert.ErrorIs(t, err, apperror.ErrInsufficientStock)
		got, _ := inv.Get(catalog.KindChair, "Oak Chair")
		assert.Equal(t, 2, got.Quantity)
	})

	t.Run("Invalid Quantity", func(t *testing.T) {
		_, err := inv.Remove(catalog.KindChair, "Oak Chair", 0)
		assert.ErrorIs(t, err, apperror.ErrInvalidQuantity)
	})

	t.Run("Purged At Zero", func(t *testing.T) {
		left, err := inv.Remove(catalog.KindChair, "Oak Chair", 2)
		require.NoError(t, err)
		assert.Equal(t, 0, left.Quantity)
		_, err = inv.Get(catalog.KindChair, "Oak Chair")
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		assert.Empty(t, inv.All())
	})
}

func TestSetQuantityAndDelete(t *testing.T) {
	inv := New(zap.NewNop())
	_, err := inv.Add(chair(t, "Oak Chair", 2))
	require.NoError(t, err)

	updated, err := inv.SetQuantity(catalog.KindChair, "Oak Chair", 9)
	require.NoError(t, err)
	assert.Equal(t, 9, updated.Quantity)

	_, err = inv.SetQuantity(catalog.KindChair, "Oak Chair", -1)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	deleted, err := inv.Delete(catalog.KindChair, "Oak Chair")
	require.NoError(t, err)
	assert.Equal(t, 0, deleted.Quantity)
	_, err = inv.Delete(catalog.KindChair, "Oak Chair")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSearch(t *testing.T) {
	inv := New(zap.NewNop())
	_, _ = inv.Add(chair(t, "Oak Chair", 2))
	_, _ = inv.Add(chair(t, "Pine Chair", 2))
	_, _ = inv.Add(sofa(t, "Oak Sofa", 1))

	assert.Empty(t, inv.SearchByType("Lamp"))
	assert.NotNil(t, inv.SearchByType("Lamp"))

	chairs := inv.SearchByType(catalog.KindChair)
	require.Len(t, chairs, 2)
	assert.Equal(t, "Oak Chair", chairs[0].Name)
	assert.Equal(t, "Pine Chair", chairs[1].Name)

	oak := inv.Search(Filter{Name: "oak"})
	require.Len(t, oak, 2)
	assert.Equal(t, catalog.KindChair, oak[0].Kind)
	assert.Equal(t, catalog.KindSofa, oak[1].Kind)

	assert.Len(t, inv.Search(Filter{Kind: catalog.KindSofa, Name: "oak"}), 1)
	assert.Len(t, inv.Search(Filter{Material: "wood", Color: "black"}), 3)
}

func TestSearch_ReturnsCopies(t *testing.T) {
	inv := New(zap.NewNop())
	_, _ = inv.Add(chair(t, "Oak Chair", 2))

	items := inv.All()
	items[0].Quantity = 100

	got, _ := inv.Get(catalog.KindChair, "Oak Chair")
	assert.Equal(t, 2, got.Quantity)
}

func TestCheckLowStock(t *testing.T) {
	inv := New(zap.NewNop())
	_, _ = inv.Add(chair(t, "Oak Chair", 2))
	_, _ = inv.Add(chair(t, "Pine Chair", 10))
	_, _ = inv.Add(sofa(t, "Corner", 4))

	first := inv.CheckLowStock(5)
	second := inv.CheckLowStock(5)

	require.Len(t, first, 2)
	assert.Equal(t, first, second)
	assert.Equal(t, "Oak Chair", first[0].Item.Name)
	assert.Equal(t, 2, first[0].Remaining)
	assert.Equal(t, "Corner", first[1].Item.Name)

	assert.Empty(t, inv.CheckLowStock(2))
}

func TestObservers(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	inv := New(zap.New(core))

	var calls []string
	inv.Subscribe(func(ev Event) error {
		calls = append(calls, "first:"+string(ev.Type))
		return errors.New("first failed")
	})
	inv.Subscribe(func(ev Event) error {
		panic("second exploded")
	})
	inv.Subscribe(func(ev Event) error {
		calls = append(calls, "third:"+string(ev.Type))
		return nil
	})

	_, err := inv.Add(chair(t, "Oak Chair", 3))
	require.NoError(t, err)
	_, err = inv.Remove(catalog.KindChair, "Oak Chair", 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"first:added", "third:added", "first:removed", "third:removed"}, calls)

	got, _ := inv.Get(catalog.KindChair, "Oak Chair")
	assert.Equal(t, 2, got.Quantity)
	assert.Equal(t, 2, logs.FilterMessage("Inventory observer failed").Len())
}

func TestObservers_SeeRemainingQuantity(t *testing.T) {
	inv := New(zap.NewNop())
	var events []Event
	inv.Subscribe(func(ev Event) error {
		events = append(events, ev)
		return nil
	})

	_, _ = inv.Add(chair(t, "Oak Chair", 3))
	_, _ = inv.Remove(catalog.KindChair, "Oak Chair", 3)

	require.Len(t, events, 2)
	assert.Equal(t, 3, events[0].Item.Quantity)
	assert.Equal(t, 3, events[0].Delta)
	assert.Equal(t, 0, events[1].Item.Quantity)
	assert.Equal(t, -3, events[1].Delta)
}

func TestReserve(t *testing.T) {
	t.Run("All Or Nothing", func(t *testing.T) {
		inv := New(zap.NewNop())
		_, _ = inv.Add(chair(t, "Oak Chair", 5))
		_, _ = inv.Add(sofa(t, "Corner", 1))

		_, err := inv.Reserve([]Line{
			{Kind: catalog.KindChair, Name: "Oak Chair", Quantity: 3},
			{Kind: catalog.KindSofa, Name: "Corner", Quantity: 2},
			{Kind: catalog.KindBed, Name: "Ghost", Quantity: 1},
		})
		require.ErrorIs(t, err, apperror.ErrInsufficientStock)

		shortages := apperror.Shortages(err)
		require.Len(t, shortages, 2)
		assert.Equal(t, apperror.Shortage{Type: "Sofa", Name: "Corner", Requested: 2, Available: 1}, shortages[0])
		assert.Equal(t, apperror.Shortage{Type: "Bed", Name: "Ghost", Requested: 1, Available: 0}, shortages[1])

		got, _ := inv.Get(catalog.KindChair, "Oak Chair")
		assert.Equal(t, 5, got.Quantity)
	})

	t.Run("Duplicate Lines Are Summed", func(t *testing.T) {
		inv := New(zap.NewNop())
		_, _ = inv.Add(chair(t, "Oak Chair", 5))

		_, err := inv.Reserve([]Line{
			{Kind: catalog.KindChair, Name: "Oak Chair", Quantity: 3},
			{Kind: catalog.KindChair, Name: "Oak Chair", Quantity: 3},
		})
		assert.ErrorIs(t, err, apperror.ErrInsufficientStock)
	})

	t.Run("Success", func(t *testing.T) {
		inv := New(zap.NewNop())
		_, _ = inv.Add(chair(t, "Oak Chair", 5))
		_, _ = inv.Add(sofa(t, "Corner", 1))

		reserved, err := inv.Reserve([]Line{
			{Kind: catalog.KindChair, Name: "Oak Chair", Quantity: 3},
			{Kind: catalog.KindSofa, Name: "Corner", Quantity: 1},
		})
		require.NoError(t, err)
		require.Len(t, reserved, 2)
		assert.Equal(t, "Oak Chair", reserved[0].Name)
		assert.Equal(t, "Corner", reserved[1].Name)

		got, _ := inv.Get(catalog.KindChair, "Oak Chair")
		assert.Equal(t, 2, got.Quantity)
		_, err = inv.Get(catalog.KindSofa, "Corner")
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("Invalid", func(t *testing.T) {
		inv := New(zap.NewNop())
		_, err := inv.Reserve(nil)
		assert.ErrorIs(t, err, apperror.ErrValidation)
		_, err = inv.Reserve([]Line{{Kind: catalog.KindChair, Name: "x", Quantity: 0}})
		assert.ErrorIs(t, err, apperror.ErrInvalidQuantity)
	})
}

func TestReserve_ConcurrentNeverOversells(t *testing.T) {
	inv := New(zap.NewNop())
	_, _ = inv.Add(chair(t, "Oak Chair", 10))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := inv.Reserve([]Line{{Kind: catalog.KindChair, Name: "Oak Chair", Quantity: 1}}); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, success)
	_, err := inv.Get(catalog.KindChair, "Oak Chair")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestRestock_RecreatesPurgedEntry(t *testing.T) {
	inv := New(zap.NewNop())
	_, _ = inv.Add(chair(t, "Oak Chair", 2))

	reserved, err := inv.Reserve([]Line{{Kind: catalog.KindChair, Name: "Oak Chair", Quantity: 2}})
	require.NoError(t, err)

	back := reserved[0]
	back.Quantity = 2
	require.NoError(t, inv.Restock([]catalog.Item{back}))

	got, err := inv.Get(catalog.KindChair, "Oak Chair")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)
	assert.Equal(t, reserved[0].ID, got.ID)
}

func TestLoad_SkipsEmptyAndDoesNotNotify(t *testing.T) {
	inv := New(zap.NewNop())
	notified := false
	inv.Subscribe(func(Event) error {
		notified = true
		return nil
	})

	inv.Load([]catalog.Item{chair(t, "Oak Chair", 3), chair(t, "Empty Chair", 0)})

	assert.False(t, notified)
	assert.Len(t, inv.All(), 1)
}

func TestLowStockNotifier(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	inv := New(zap.NewNop())
	inv.Subscribe(LowStockNotifier(5, zap.New(core)))

	_, _ = inv.Add(chair(t, "Oak Chair", 10))
	assert.Equal(t, 0, logs.Len())

	_, _ = inv.Remove(catalog.KindChair, "Oak Chair", 5)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, int64(5), logs.All()[0].ContextMap()["remaining"])

	_, _ = inv.Delete(catalog.KindChair, "Oak Chair")
	assert.Equal(t, 1, logs.Len())
}

func TestDemoCatalog(t *testing.T) {
	items := DemoCatalog()
	require.NotEmpty(t, items)

	inv := New(zap.NewNop())
	for _, it := range items {
		_, err := inv.Add(it)
		require.NoError(t, err)
	}
	assert.Len(t, inv.All(), len(items))
}
