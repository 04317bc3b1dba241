package redis_test

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/tandem/pkg/adapters/memory"
	"github.com/aretw0/tandem/pkg/adapters/redis"
	"github.com/aretw0/tandem/pkg/domain"
	"github.com/aretw0/tandem/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisSource_Contract(t *testing.T) {
	_, client := newClient(t)
	values := memory.Values("one", "two", "three", "four", "five", "six", "seven")

	source := redis.NewFromClient(client, "articles")
	require.NoError(t, source.Seed(context.Background(), values))

	ports.RunPageSourceContract(t, source, values)
}

func TestRedisSource_Contract_PageSizeFour(t *testing.T) {
	_, client := newClient(t)
	values := memory.Values("a1", "a2", "a3", "a4", "a5")

	source := redis.NewFromClient(client, "articles", redis.WithPageSize(4))
	require.NoError(t, source.Seed(context.Background(), values))

	ports.RunPageSourceContract(t, source, values)
}

func TestRedisSource_Prefix(t *testing.T) {
	mr, client := newClient(t)
	ctx := context.Background()

	source := redis.NewFromClient(client, "categories", redis.WithPrefix("custom:app:"))
	require.NoError(t, source.Seed(ctx, memory.Values("x", "y")))

	assert.True(t, mr.Exists("custom:app:categories"), "expected key with custom prefix to exist")
	items, err := mr.List("custom:app:categories")
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.JSONEq(t, `{"code":"x","label":"x"}`, items[0])
}

func TestRedisSource_MissingCatalogIsEmpty(t *testing.T) {
	_, client := newClient(t)

	page, err := redis.NewFromClient(client, "nothing").FetchPage(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Empty(t, page.Values)
	assert.Nil(t, page.NextPage)
}

func TestRedisSource_ReseedReplaces(t *testing.T) {
	_, client := newClient(t)
	ctx := context.Background()
	source := redis.NewFromClient(client, "articles")

	require.NoError(t, source.Seed(ctx, memory.Values("one", "two", "three", "four")))
	require.NoError(t, source.Seed(ctx, memory.Values("five")))

	values, err := source.Values(ctx)
	require.NoError(t, err)
	assert.Equal(t, memory.Values("five"), values)
}

func TestRedisSource_CorruptValue(t *testing.T) {
	mr, client := newClient(t)
	_, err := mr.Push(redis.DefaultPrefix+"articles", "not-json")
	require.NoError(t, err)

	_, err = redis.NewFromClient(client, "articles").FetchPage(context.Background(), "", 0)
	assert.Error(t, err)
}

func TestRedisSource_ServerDown(t *testing.T) {
	mr, client := newClient(t)
	source := redis.NewFromClient(client, "articles")
	mr.Close()

	_, err := source.FetchPage(context.Background(), "", 0)
	assert.Error(t, err)
}

func TestRedisSource_SeedIfEmpty(t *testing.T) {
	_, client := newClient(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	seeded := 0
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			source := redis.NewFromClient(client, "articles")
			ok, err := source.SeedIfEmpty(ctx, memory.Values("one", "two"))
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				seeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, seeded)
	values, err := redis.NewFromClient(client, "articles").Values(ctx)
	require.NoError(t, err)
	assert.Len(t, values, 2)
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := redis.New("not a url", "articles")
	assert.Error(t, err)
}

func TestNew_FromURL(t *testing.T) {
	mr := miniredis.RunT(t)
	source, err := redis.New("redis://"+mr.Addr()+"/0", "articles")
	require.NoError(t, err)
	t.Cleanup(func() { _ = source.Close() })

	require.NoError(t, source.Seed(context.Background(), []domain.Value{{Code: "c", Label: "C"}}))
	page, err := source.FetchPage(context.Background(), "c", 0)
	require.NoError(t, err)
	assert.Len(t, page.Values, 1)
}

func TestRedisSource_HugePageIsPastTheEnd(t *testing.T) {
	_, client := newClient(t)
	ctx := context.Background()
	source := redis.NewFromClient(client, "articles")
	require.NoError(t, source.Seed(ctx, memory.Values("one", "two", "three", "four")))

	for _, n := range []int{3074457345618258603, math.MaxInt64} {
		page, err := source.FetchPage(ctx, "", n)
		require.NoError(t, err)
		assert.Empty(t, page.Values)
		assert.NotNil(t, page.Values)
		assert.Nil(t, page.NextPage)
	}
}

// pipelineRecorder records the command names of every pipeline sent.
type pipelineRecorder struct {
	mu    sync.Mutex
	names [][]string
}

func (r *pipelineRecorder) DialHook(next backend.DialHook) backend.DialHook { return next }

func (r *pipelineRecorder) ProcessHook(next backend.ProcessHook) backend.ProcessHook { return next }

func (r *pipelineRecorder) ProcessPipelineHook(next backend.ProcessPipelineHook) backend.ProcessPipelineHook {
	return func(ctx context.Context, cmds []backend.Cmder) error {
		names := make([]string, len(cmds))
		for i, c := range cmds {
			names[i] = c.Name()
		}
		r.mu.Lock()
		r.names = append(r.names, names)
		r.mu.Unlock()
		return next(ctx, cmds)
	}
}

func TestRedisSource_PageReadIsTransactional(t *testing.T) {
	_, client := newClient(t)
	ctx := context.Background()
	source := redis.NewFromClient(client, "articles")
	require.NoError(t, source.Seed(ctx, memory.Values("one", "two", "three", "four")))

	rec := &pipelineRecorder{}
	client.AddHook(rec)

	page, err := source.FetchPage(ctx, "", 1)
	require.NoError(t, err)
	assert.Equal(t, memory.Values("four"), page.Values)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.names, 1)
	assert.Equal(t, []string{"multi", "lrange", "llen", "exec"}, rec.names[0])
}
