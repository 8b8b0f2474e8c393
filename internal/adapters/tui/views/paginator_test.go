package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginator_CursorStaysVisible(t *testing.T) {
	p := NewPaginator(3)
	p.SetTotal(7)

	for range 4 {
		p.CursorDown()
	}
	assert.Equal(t, 4, p.Cursor())
	start, end := p.VisibleRange()
	assert.Equal(t, 3, start)
	assert.Equal(t, 6, end)
	current, count := p.Page()
	assert.Equal(t, 2, current)
	assert.Equal(t, 3, count)

	assert.True(t, p.NextPage())
	assert.Equal(t, 6, p.Cursor())
	assert.False(t, p.NextPage())
	assert.False(t, p.CursorDown())

	assert.True(t, p.PrevPage())
	assert.Equal(t, 3, p.Cursor())
}

func TestPaginator_ShrinkingList(t *testing.T) {
	p := NewPaginator(5)
	p.SetTotal(10)
	p.SetCursor(9)

	p.SetTotal(4)
	assert.Equal(t, 3, p.Cursor())
	start, end := p.VisibleRange()
	assert.Equal(t, 0, start)
	assert.Equal(t, 4, end)

	p.SetTotal(0)
	assert.Equal(t, 0, p.Cursor())
}

func TestPaginator_SetPageSize(t *testing.T) {
	p := NewPaginator(10)
	p.SetTotal(30)
	p.SetCursor(25)

	p.SetPageSize(4)
	start, end := p.VisibleRange()
	assert.Equal(t, 24, start)
	assert.Equal(t, 28, end)

	p.SetPageSize(0)
	start, _ = p.VisibleRange()
	assert.Equal(t, 24, start, "non-positive size is ignored")
}
