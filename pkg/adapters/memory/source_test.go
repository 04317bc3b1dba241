package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/tandem/pkg/adapters/memory"
	"github.com/aretw0/tandem/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySource_Contract(t *testing.T) {
	values := memory.Values("one", "two", "three", "four", "five", "six", "seven")
	source := memory.NewSource(values)
	ports.RunPageSourceContract(t, source, values)
}

func TestMemorySource_Contract_PageSizeTwo(t *testing.T) {
	values := memory.Values("alpha", "beta", "gamma")
	source := memory.NewSource(values, memory.WithPageSize(2))
	ports.RunPageSourceContract(t, source, values)
}

func TestMemorySource_ExactPage(t *testing.T) {
	source := memory.NewSource(memory.Values("one", "two", "three"))

	page, err := source.FetchPage(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Equal(t, memory.Values("one", "two", "three"), page.Values)
	assert.Nil(t, page.NextPage, "a single full page has no next page")
}

func TestMemorySource_Replace(t *testing.T) {
	source := memory.NewSource(memory.Values("one"))
	source.Replace(memory.Values("x", "y"))

	page, err := source.FetchPage(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Equal(t, memory.Values("x", "y"), page.Values)
	assert.Equal(t, 2, source.Len())
}

func TestMemorySource_LatencyHonorsContext(t *testing.T) {
	source := memory.NewSource(memory.Values("one"), memory.WithLatency(time.Minute))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := source.FetchPage(ctx, "", 0)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCombiner(t *testing.T) {
	c := memory.NewCombiner()
	msg, err := c.Combine(context.Background(), "one", "two")
	require.NoError(t, err)
	assert.Equal(t, `Values "one" and "two" have been mapped`, msg)

	slow := memory.NewCombiner(memory.WithDelay(time.Minute))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = slow.Combine(ctx, "one", "two")
	assert.ErrorIs(t, err, context.Canceled)

	var _ ports.Combiner = c
	var _ ports.PageSource = memory.NewSource(nil)
}
