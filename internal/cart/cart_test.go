package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/lumina-storefront/internal/catalog/domain"
)

func product(t *testing.T, id uint) domain.Product {
	t.Helper()
	for _, p := range domain.SeedProducts() {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("no seed product %d", id)
	return domain.Product{}
}

func TestAddMergesByProduct(t *testing.T) {
	c := New()
	c.Add(product(t, 1), 2)
	c.Add(product(t, 1), 3)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, 5, c.Count())
	assert.True(t, c.IsOpen())
}

func TestAddTreatsNonPositiveQuantityAsOne(t *testing.T) {
	c := New()
	c.Add(product(t, 2), 0)
	c.Add(product(t, 3), -4)

	assert.Equal(t, 2, c.Count())
}

func TestUpdateQuantityFloorsAtOne(t *testing.T) {
	c := New()
	c.Add(product(t, 3), 2)

	qty, ok := c.UpdateQuantity(3, -5)
	require.True(t, ok)
	assert.Equal(t, 1, qty)

	qty, ok = c.UpdateQuantity(3, 4)
	require.True(t, ok)
	assert.Equal(t, 5, qty)

	_, ok = c.UpdateQuantity(99, 1)
	assert.False(t, ok)
}

func TestSaveForLaterMovesQuantity(t *testing.T) {
	c := New()
	c.Add(product(t, 1), 1)
	c.Add(product(t, 5), 3)
	require.Equal(t, 4, c.Count())

	item, ok := c.SaveForLater(5)
	require.True(t, ok)
	assert.Equal(t, 3, item.Quantity)

	assert.Equal(t, 1, c.Count())
	saved := c.Saved()
	require.Len(t, saved, 1)
	assert.EqualValues(t, 5, saved[0].ID)
	assert.Equal(t, 3, saved[0].Quantity)
}

func TestSaveForLaterFirstWriteWins(t *testing.T) {
	c := New()
	c.Add(product(t, 6), 2)
	c.SaveForLater(6)
	c.Add(product(t, 6), 7)

	_, ok := c.SaveForLater(6)
	require.True(t, ok)

	assert.Empty(t, c.Items())
	saved := c.Saved()
	require.Len(t, saved, 1)
	assert.Equal(t, 2, saved[0].Quantity)
}

func TestSaveForLaterUnknownIsNoop(t *testing.T) {
	c := New()
	_, ok := c.SaveForLater(1)
	assert.False(t, ok)
	assert.Empty(t, c.Saved())
}

func TestMoveToCartMergesWithExistingLine(t *testing.T) {
	c := New()
	c.Add(product(t, 7), 2)
	c.SaveForLater(7)
	c.Add(product(t, 7), 1)

	_, ok := c.MoveToCart(7)
	require.True(t, ok)

	assert.Empty(t, c.Saved())
	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestRemoveAndRemoveSaved(t *testing.T) {
	c := New()
	c.Add(product(t, 1), 1)
	c.Add(product(t, 2), 1)
	c.SaveForLater(2)

	assert.True(t, c.Remove(1))
	assert.False(t, c.Remove(1))
	assert.True(t, c.RemoveSaved(2))
	assert.False(t, c.RemoveSaved(2))
	assert.Zero(t, c.Count())
}

func TestSubtotalIsExact(t *testing.T) {
	c := New()
	c.Add(product(t, 1), 3) // 129.99
	c.Add(product(t, 4), 1) // 59.99
	c.Add(product(t, 2), 1)
	c.SaveForLater(2)

	assert.True(t, decimal.RequireFromString("449.96").Equal(c.Subtotal()), c.Subtotal().String())
}

func TestItemsReturnsCopy(t *testing.T) {
	c := New()
	c.Add(product(t, 1), 1)

	items := c.Items()
	items[0].Quantity = 100
	assert.Equal(t, 1, c.Count())
}

func TestSnapshot(t *testing.T) {
	c := New()
	c.Add(product(t, 3), 2)
	c.SetOpen(false)

	snap := c.Snapshot()
	assert.Equal(t, 2, snap.Count)
	assert.False(t, snap.Open)
	assert.Equal(t, "170", snap.Subtotal.String())
	assert.NotNil(t, snap.Saved)
}
