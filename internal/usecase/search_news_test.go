package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketBoard/internal/repository"
)

func TestSearch(t *testing.T) {
	uc := NewSearchUseCase(repository.NewStaticCatalog())

	assert.Len(t, uc.Search(""), 5)
	assert.Len(t, uc.Search("   "), 5)

	res := uc.Search("group")
	require.Len(t, res, 2)
	assert.Equal(t, "GPV.TRV", res[0].Symbol)
	assert.Equal(t, "MBG.DEX", res[1].Symbol)

	res = uc.Search("technology")
	require.Len(t, res, 2)
	assert.Equal(t, "IBM", res[0].Symbol)

	res = uc.Search(".lon")
	require.Len(t, res, 1)
	assert.Equal(t, "TSCO.LON", res[0].Symbol)

	assert.Empty(t, uc.Search("zzz"))
}

func TestNewsLatest(t *testing.T) {
	now := time.Date(2026, 1, 12, 12, 0, 0, 0, time.UTC)
	uc := &NewsUseCase{now: func() time.Time { return now }}

	items := uc.Latest()
	require.Len(t, items, 4)
	for i, it := range items {
		assert.Equal(t, now.Add(-time.Duration(i+1)*time.Hour), it.PublishedAt)
		assert.Equal(t, "#", it.URL)
	}
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "Reuters", items[3].Source)
}
