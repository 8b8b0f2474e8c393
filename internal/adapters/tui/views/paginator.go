package views

// Paginator keeps a cursor and a visible window over a list
type Paginator struct {
	size   int
	offset int
	cursor int
	total  int
}

// NewPaginator creates a paginator showing size rows at a time
func NewPaginator(size int) *Paginator {
	if size <= 0 {
		size = 10
	}
	return &Paginator{size: size}
}

// SetTotal updates the list length, clamping the cursor to the last row
func (p *Paginator) SetTotal(total int) {
	p.total = max(total, 0)
	p.SetCursor(p.cursor)
}

// SetPageSize changes the window height
func (p *Paginator) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	p.size = size
	p.follow()
}

// Cursor returns the absolute index of the selected row
func (p *Paginator) Cursor() int {
	return p.cursor
}

// SetCursor selects a row, clamped to the list
func (p *Paginator) SetCursor(pos int) {
	p.cursor = max(min(pos, p.total-1), 0)
	p.follow()
}

// CursorUp selects the previous row; false at the top
func (p *Paginator) CursorUp() bool {
	if p.cursor == 0 {
		return false
	}
	p.SetCursor(p.cursor - 1)
	return true
}

// CursorDown selects the next row; false at the bottom
func (p *Paginator) CursorDown() bool {
	if p.cursor >= p.total-1 {
		return false
	}
	p.SetCursor(p.cursor + 1)
	return true
}

// VisibleRange returns the half-open row range on screen
func (p *Paginator) VisibleRange() (start, end int) {
	return p.offset, min(p.offset+p.size, p.total)
}

// Page returns the 1-based page and the page count
func (p *Paginator) Page() (current, count int) {
	count = max((p.total+p.size-1)/p.size, 1)
	return p.offset/p.size + 1, count
}

// NextPage jumps to the first row of the next page
func (p *Paginator) NextPage() bool {
	if p.offset+p.size >= p.total {
		return false
	}
	p.SetCursor(p.offset + p.size)
	return true
}

// PrevPage jumps to the first row of the previous page
func (p *Paginator) PrevPage() bool {
	if p.offset == 0 {
		return false
	}
	p.SetCursor(p.offset - p.size)
	return true
}

// follow aligns the window to the page that holds the cursor
func (p *Paginator) follow() {
	p.offset = (p.cursor / p.size) * p.size
}
