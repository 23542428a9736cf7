// Package paging derives clamped offset windows over ordered result sets
// and compact, ellipsis-collapsed page-link plans. Everything here is a
// pure function of counts: page state is threaded explicitly, never held
// in package or process globals.
package paging

// Window is the slice of an ordered result set corresponding to one page.
type Window struct {
	Page   int // clamped page index, 0-based
	Offset int
	Length int
}

// PageCount returns the number of pages needed for total records at the
// given page size. Zero records need zero pages.
func PageCount(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Clamp resolves a requested page against the current total. The page is
// clamped to [0, PageCount-1]; an empty set yields the empty window.
func Clamp(total, pageSize, requested int) Window {
	pages := PageCount(total, pageSize)
	if pages == 0 {
		return Window{}
	}
	page := requested
	if page < 0 {
		page = 0
	}
	if page > pages-1 {
		page = pages - 1
	}
	offset := page * pageSize
	length := pageSize
	if offset+length > total {
		length = total - offset
	}
	return Window{Page: page, Offset: offset, Length: length}
}

// ClampTail is Clamp for lists presented newest-window-first over an
// ascending storage order: page 0 is the window at the end of the
// sequence, and a short first window is trimmed at the front rather than
// the back. Which records fall in a window depends only on the page index;
// how the page is labeled is PageLinks' concern.
func ClampTail(total, pageSize, requested int) Window {
	w := Clamp(total, pageSize, requested)
	if w.Length == 0 {
		return w
	}
	low := total - (w.Page+1)*pageSize
	length := pageSize
	if low < 0 {
		length += low
		low = 0
	}
	return Window{Page: w.Page, Offset: low, Length: length}
}

// Link is one entry of a page-link plan: either a page reference or an
// ellipsis marker standing in for a collapsed run of hidden pages.
type Link struct {
	Page     int // page index to request; meaningless for ellipsis entries
	Label    int // 1-based display number, reversed when requested
	Ellipsis bool
	Current  bool
}

// visible reports whether page i is shown outright: the first two pages,
// the last two, and anything within 3 of the current page.
func visible(i, current, totalPages int) bool {
	return i < 2 || abs(i-current) < 3 || totalPages-1-i < 2
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// PageLinks produces the compact link list for a pager. Consecutive hidden
// pages collapse into a single ellipsis entry. reverse flips the display
// numbering (and the emission order) for lists whose newest window comes
// first; it does not change which records belong to any window.
func PageLinks(totalPages, current int, reverse bool) []Link {
	if totalPages <= 0 {
		return nil
	}
	links := make([]Link, 0, totalPages)
	emit := func(i int) {
		label := i + 1
		if reverse {
			label = totalPages - i
		}
		links = append(links, Link{Page: i, Label: label, Current: i == current})
	}
	inGap := false
	for n := 0; n < totalPages; n++ {
		i := n
		if reverse {
			i = totalPages - 1 - n
		}
		if visible(i, current, totalPages) {
			emit(i)
			inGap = false
			continue
		}
		if !inGap {
			links = append(links, Link{Ellipsis: true})
			inGap = true
		}
	}
	return links
}
