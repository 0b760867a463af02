package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(links []Link) []string {
	out := make([]string, 0, len(links))
	for _, l := range links {
		out = append(out, l.Label)
	}
	return out
}

func TestBuild_FirstAndLastPage(t *testing.T) {
	first := Build("/api/v1/conversations", 1, 10, 177)
	assert.Equal(t, 18, first.LastPage)
	require.NotNil(t, first.From)
	require.NotNil(t, first.To)
	assert.Equal(t, int64(1), *first.From)
	assert.Equal(t, int64(10), *first.To)
	assert.Nil(t, first.PrevPageURL)
	require.NotNil(t, first.NextPageURL)
	assert.Equal(t, "/api/v1/conversations?page=2", *first.NextPageURL)

	last := Build("/api/v1/conversations", 18, 10, 177)
	require.NotNil(t, last.From)
	assert.Equal(t, int64(171), *last.From)
	assert.Equal(t, int64(177), *last.To)
	assert.Nil(t, last.NextPageURL)
	require.NotNil(t, last.LastPageURL)
	assert.Equal(t, "/api/v1/conversations?page=18", *last.LastPageURL)
}

func TestBuild_Empty(t *testing.T) {
	meta := Build("/api/v1/campaigns", 1, 10, 0)
	assert.Equal(t, 0, meta.LastPage)
	assert.Nil(t, meta.From)
	assert.Nil(t, meta.To)
	assert.Nil(t, meta.LastPageURL)
	assert.Equal(t, []string{PrevLabel, NextLabel}, labels(meta.Links))
}

func TestBuild_PageBeyondLast(t *testing.T) {
	meta := Build("/p", 5, 10, 30)
	assert.Equal(t, 3, meta.LastPage)
	assert.Nil(t, meta.From)
	assert.Nil(t, meta.To)
	assert.Nil(t, meta.NextPageURL)
}

func TestBuild_LinkWindow(t *testing.T) {
	meta := Build("/p", 1, 10, 177)
	assert.Equal(t,
		[]string{PrevLabel, "1", "2", "3", "4", "5", "6", "...", "18", NextLabel},
		labels(meta.Links))
	assert.True(t, meta.Links[1].Active)
	assert.Nil(t, meta.Links[7].URL)

	meta = Build("/p", 9, 10, 177)
	assert.Equal(t,
		[]string{PrevLabel, "1", "...", "5", "6", "7", "8", "9", "10", "11", "12", "13", "14", "...", "18", NextLabel},
		labels(meta.Links))

	meta = Build("/p", 18, 10, 177)
	assert.Equal(t,
		[]string{PrevLabel, "1", "...", "14", "15", "16", "17", "18", NextLabel},
		labels(meta.Links))
	assert.True(t, meta.Links[len(meta.Links)-2].Active)
	assert.Nil(t, meta.Links[len(meta.Links)-1].URL)

	// 窗口紧贴边界时不出现省略号
	meta = Build("/p", 2, 10, 80)
	assert.Equal(t,
		[]string{PrevLabel, "1", "2", "3", "4", "5", "6", "7", "8", NextLabel},
		labels(meta.Links))
}

func TestBuild_Stable(t *testing.T) {
	assert.Equal(t, Build("/p?search=a", 3, 25, 1000), Build("/p?search=a", 3, 25, 1000))
}

func TestPageURL(t *testing.T) {
	assert.Equal(t, "/p?page=3", PageURL("/p", 3))
	assert.Equal(t, "/p?search=a&page=3", PageURL("/p?search=a", 3))
}

func TestLastPage(t *testing.T) {
	assert.Equal(t, 0, LastPage(0, 10))
	assert.Equal(t, 1, LastPage(10, 10))
	assert.Equal(t, 2, LastPage(11, 10))
	assert.Equal(t, 0, LastPage(5, 0))
}
