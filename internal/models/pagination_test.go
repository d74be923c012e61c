package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageClamps(t *testing.T) {
	assert.Equal(t, Page{Number: 1, Limit: 10}, NewPage(0, 0, 10, 50))
	assert.Equal(t, Page{Number: 3, Limit: 10}, NewPage(3, 500, 10, 50))
	assert.Equal(t, Page{Number: 2, Limit: 50}, NewPage(2, 50, 10, 50))
	assert.Equal(t, 10, NewPage(2, 10, 10, 50).Offset())
}

func TestPageMeta(t *testing.T) {
	meta := Page{Number: 2, Limit: 10}.Meta(25)
	assert.Equal(t, PageMeta{
		CurrentPage:     2,
		TotalPages:      3,
		TotalItems:      25,
		ItemsPerPage:    10,
		HasNextPage:     true,
		HasPreviousPage: true,
	}, meta)

	empty := Page{Number: 1, Limit: 10}.Meta(0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNextPage)
	assert.False(t, empty.HasPreviousPage)
}
