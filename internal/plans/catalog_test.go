package plans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	c := NewCatalog("price_std", "price_dlx")

	all := c.All()
	require.Len(t, all, 2)
	assert.Equal(t, Standard, all[0].ID)
	assert.Equal(t, Deluxe, all[1].ID)

	std, ok := c.Get(Standard)
	require.True(t, ok)
	assert.Equal(t, int64(3999), std.PriceMonthly)
	assert.Equal(t, 2, std.CutsPerMonth)
	assert.False(t, std.IsHome)

	dlx, ok := c.Get(Deluxe)
	require.True(t, ok)
	assert.Equal(t, int64(6000), dlx.PriceMonthly)
	assert.True(t, dlx.IsHome)

	_, ok = c.Get("platinum")
	assert.False(t, ok)

	p, ok := c.ByPriceRef("price_dlx")
	require.True(t, ok)
	assert.Equal(t, Deluxe, p.ID)

	_, ok = c.ByPriceRef("")
	assert.False(t, ok)
}
