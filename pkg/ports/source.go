package ports

import (
	"context"

	"github.com/aretw0/tandem/pkg/domain"
)

// PageSource defines how a list region retrieves its values.
// The page size and backing store are the source's concern.
type PageSource interface {
	// FetchPage returns the values of the given page for the search term.
	// An empty term means no filter. The returned Page.NextPage is nil once
	// there is no further data.
	// Implementations must honor ctx cancellation.
	FetchPage(ctx context.Context, term string, page int) (domain.Page, error)
}

// PageSourceFunc adapts a function to the PageSource interface.
type PageSourceFunc func(ctx context.Context, term string, page int) (domain.Page, error)

// FetchPage calls f(ctx, term, page).
func (f PageSourceFunc) FetchPage(ctx context.Context, term string, page int) (domain.Page, error) {
	return f(ctx, term, page)
}
