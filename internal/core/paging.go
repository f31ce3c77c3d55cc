package core

// DefaultPageSize is used when neither the request nor the configuration
// supplies a usable page size.
const DefaultPageSize = 10

// PagingInfo describes one page of an ordered list.
type PagingInfo struct {
	CurrentPage  int
	ItemsPerPage int
	TotalItems   int64
	TotalPages   int
	SortCode     int
	Ascending    bool
}

// ComputePage builds the PagingInfo for page of totalItems split into pages
// of pageSize. pageSize below 1 falls back to DefaultPageSize. The page is
// not clamped; use Window to decide what to do with an out-of-range page.
func ComputePage(page, pageSize int, totalItems int64) PagingInfo {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if totalItems < 0 {
		totalItems = 0
	}
	totalPages := int((totalItems + int64(pageSize) - 1) / int64(pageSize))

	return PagingInfo{
		CurrentPage:  page,
		ItemsPerPage: pageSize,
		TotalItems:   totalItems,
		TotalPages:   totalPages,
	}
}

// Offset is the number of rows preceding the current page.
func (p PagingInfo) Offset() int64 {
	if p.CurrentPage < 1 {
		return 0
	}
	return int64(p.CurrentPage-1) * int64(p.ItemsPerPage)
}

// Limit is the maximum number of rows on the page.
func (p PagingInfo) Limit() int { return p.ItemsPerPage }

// HasPrevious reports whether a page precedes the current one.
func (p PagingInfo) HasPrevious() bool { return p.CurrentPage > 1 }

// HasNext reports whether a page follows the current one.
func (p PagingInfo) HasNext() bool { return p.CurrentPage < p.TotalPages }

// FirstPosition is the 0-based list position of the first row on the page.
func (p PagingInfo) FirstPosition() int64 { return p.Offset() }

// Pages returns up to width page numbers centred on the current page, for
// rendering a pager.
func (p PagingInfo) Pages(width int) []int {
	if p.TotalPages == 0 || width < 1 {
		return nil
	}
	start := p.CurrentPage - width/2
	if start < 1 {
		start = 1
	}
	end := start + width - 1
	if end > p.TotalPages {
		end = p.TotalPages
		start = end - width + 1
		if start < 1 {
			start = 1
		}
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// PageDecision tells a list endpoint what to do with a request.
type PageDecision int

const (
	// PageRender renders the requested page.
	PageRender PageDecision = iota
	// PageRedirectFirst redirects to page 1 keeping sort code and direction.
	PageRedirectFirst
	// PageRedirectCreate redirects to the create form of an empty list.
	PageRedirectCreate
)

func (d PageDecision) String() string {
	switch d {
	case PageRender:
		return "render"
	case PageRedirectFirst:
		return "redirect-first"
	case PageRedirectCreate:
		return "redirect-create"
	default:
		return "unknown"
	}
}

// PagingPolicy carries the per-endpoint paging options.
type PagingPolicy struct {
	PageSize              int
	RedirectEmptyToCreate bool
}

// Window computes the page for a list request and the action to take.
//
//   - an empty list redirects to create when the policy opts in, otherwise
//     page 1 renders empty;
//   - a page below 1 or past the last page redirects to page 1;
//   - everything else renders.
func Window(page int, sort SortSpec, totalItems int64, policy PagingPolicy) (PagingInfo, PageDecision) {
	info := ComputePage(page, policy.PageSize, totalItems)
	info.SortCode = sort.Code
	info.Ascending = sort.Ascending

	if info.TotalItems == 0 {
		if policy.RedirectEmptyToCreate {
			return info, PageRedirectCreate
		}
		if page != 1 {
			return info, PageRedirectFirst
		}
		return info, PageRender
	}

	if page < 1 || page > info.TotalPages {
		return info, PageRedirectFirst
	}
	return info, PageRender
}
