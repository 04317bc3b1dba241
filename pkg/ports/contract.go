package ports

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/tandem/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunPageSourceContract runs a suite of tests to verify that a PageSource
// implementation adheres to the defined interface contract.
// The source must be seeded with exactly the given values.
func RunPageSourceContract(t *testing.T, source PageSource, values []domain.Value) {
	ctx := context.Background()
	require.NotEmpty(t, values, "contract needs at least one seeded value")

	t.Run("Walk All Pages", func(t *testing.T) {
		var got []domain.Value
		page := 0
		for i := 0; i <= len(values); i++ {
			p, err := source.FetchPage(ctx, "", page)
			require.NoError(t, err)
			got = append(got, p.Values...)
			if p.NextPage == nil {
				break
			}
			assert.Greater(t, *p.NextPage, page, "next page must advance")
			page = *p.NextPage
		}
		assert.Equal(t, values, got, "pages must concatenate to the seeded values in order")
	})

	t.Run("Page Zero Is Deterministic", func(t *testing.T) {
		first, err := source.FetchPage(ctx, "", 0)
		require.NoError(t, err)
		second, err := source.FetchPage(ctx, "", 0)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("Search Filters", func(t *testing.T) {
		target := values[len(values)-1]
		p, err := source.FetchPage(ctx, strings.ToUpper(target.Label), 0)
		require.NoError(t, err)
		assert.Contains(t, p.Values, target)
		for _, v := range p.Values {
			matches := strings.Contains(strings.ToLower(v.Label), strings.ToLower(target.Label)) ||
				strings.Contains(strings.ToLower(v.Code), strings.ToLower(target.Label))
			assert.True(t, matches, "value %q does not match term %q", v.Label, target.Label)
		}
	})

	t.Run("Search Without Matches", func(t *testing.T) {
		p, err := source.FetchPage(ctx, "\x00no-such-value\x00", 0)
		require.NoError(t, err)
		assert.Empty(t, p.Values)
		assert.Nil(t, p.NextPage)
	})

	t.Run("Past The End", func(t *testing.T) {
		p, err := source.FetchPage(ctx, "", len(values)+1)
		require.NoError(t, err)
		assert.Empty(t, p.Values)
		assert.Nil(t, p.NextPage)
	})

	t.Run("Negative Page", func(t *testing.T) {
		_, err := source.FetchPage(ctx, "", -1)
		assert.ErrorIs(t, err, domain.ErrInvalidPage)
	})
}
