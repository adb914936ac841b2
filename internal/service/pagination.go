package service

import "github.com/noah-isme/sma-adp-console/internal/models"

const defaultWindowSize = 5

// PaginationCalculator computes UI pagination state and page-number windows.
type PaginationCalculator struct {
	windowSize int
}

// NewPaginationCalculator builds a calculator showing at most windowSize page links.
func NewPaginationCalculator(windowSize int) *PaginationCalculator {
	if windowSize < 1 {
		windowSize = defaultWindowSize
	}
	return &PaginationCalculator{windowSize: windowSize}
}

// Compute derives pagination state locally. List data uses the server's
// pagination block instead; see FromPageInfo.
func (p *PaginationCalculator) Compute(current, totalItems, perPage int) models.PaginationState {
	if totalItems < 0 {
		totalItems = 0
	}
	totalPages := 0
	if perPage > 0 {
		totalPages = (totalItems + perPage - 1) / perPage
	}
	current = p.Clamp(current, totalPages)
	return models.PaginationState{
		CurrentPage:  current,
		ItemsPerPage: perPage,
		TotalItems:   totalItems,
		TotalPages:   totalPages,
		HasNextPage:  current < totalPages,
		HasPrevPage:  current > 1,
	}
}

// FromPageInfo adopts the server's pagination block, clamping only the
// current page into range.
func (p *PaginationCalculator) FromPageInfo(info models.PageInfo, totalItems int) models.PaginationState {
	current := p.Clamp(info.Page, info.TotalPages)
	return models.PaginationState{
		CurrentPage:  current,
		ItemsPerPage: info.Limit,
		TotalItems:   totalItems,
		TotalPages:   info.TotalPages,
		HasNextPage:  info.HasNextPage,
		HasPrevPage:  info.HasPrevPage,
	}
}

// Clamp bounds page into [1, max(totalPages,1)].
func (p *PaginationCalculator) Clamp(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Window returns the page numbers to render around the current page. The
// window starts windowSize/2 pages before the current page and is clipped
// at both ends, so it narrows near the last page. Empty when there are no
// pages.
func (p *PaginationCalculator) Window(state models.PaginationState) []int {
	return p.WindowOf(state, p.windowSize)
}

// WindowOf is Window with an explicit size.
func (p *PaginationCalculator) WindowOf(state models.PaginationState, size int) []int {
	total := state.TotalPages
	if total <= 0 {
		return []int{}
	}
	if size < 1 {
		size = 1
	}
	current := p.Clamp(state.CurrentPage, total)

	start := current - size/2
	if start < 1 {
		start = 1
	}
	end := start + size - 1
	if end > total {
		end = total
	}

	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}
