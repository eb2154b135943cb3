package usecase

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainMessage "github.com/finmsg/finmsg/domains/message"
	pkgError "github.com/finmsg/finmsg/pkg/error"
)

func testQuery() domainMessage.MessageQuery {
	return domainMessage.MessageQuery{
		Environment: "live",
		ClientID:    "abc",
		Amount:      "100",
		InstanceID:  "instance-1",
	}
}

func TestMessageCache_SuccessIsCached(t *testing.T) {
	fetcher := newAutoFetcher(`{"markup":"<p>offer</p>"}`, 200)
	service := NewMessageCacheService(fetcher)

	var got *domainMessage.MessageResponse
	service.Fetch(testQuery(), func(response *domainMessage.MessageResponse, err error) {
		require.NoError(t, err)
		got = response
	})

	require.NotNil(t, got)
	assert.Equal(t, "<p>offer</p>", got.Content.Markup)
	assert.Equal(t, 1, fetcher.callCount())

	// Cache hit: same content, zero duration, no extra network call.
	cached := service.GetCached(testQuery())
	require.NotNil(t, cached)
	assert.Equal(t, "<p>offer</p>", cached.Content.Markup)
	assert.Zero(t, cached.RequestDuration)

	service.Fetch(testQuery(), func(response *domainMessage.MessageResponse, err error) {
		require.NoError(t, err)
		assert.Zero(t, response.RequestDuration)
	})
	assert.Equal(t, 1, fetcher.callCount())
}

func TestMessageCache_ConcurrentFetchesShareOneFlight(t *testing.T) {
	fetcher := newManualFetcher()
	service := NewMessageCacheService(fetcher)

	const n = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	var results []string

	wg.Add(n)
	done := make(chan struct{})
	for i := 0; i < n; i++ {
		go func() {
			service.Fetch(testQuery(), func(response *domainMessage.MessageResponse, err error) {
				require.NoError(t, err)
				mu.Lock()
				results = append(results, response.Content.Markup)
				mu.Unlock()
				wg.Done()
			})
			done <- struct{}{}
		}()
	}
	// Every goroutine has registered once Fetch returned.
	for i := 0; i < n; i++ {
		<-done
	}

	assert.Equal(t, 1, fetcher.callCount())

	fetcher.release(0, []byte(`{"markup":"shared"}`), 200, nil)
	wg.Wait()

	require.Len(t, results, n)
	for _, markup := range results {
		assert.Equal(t, "shared", markup)
	}
}

func TestMessageCache_JoinersDeliveredInOrder(t *testing.T) {
	fetcher := newManualFetcher()
	service := NewMessageCacheService(fetcher)

	var order []int
	for i := 0; i < 5; i++ {
		index := i
		service.Fetch(testQuery(), func(*domainMessage.MessageResponse, error) {
			order = append(order, index)
		})
	}

	fetcher.release(0, []byte(`{"markup":"x"}`), 200, nil)

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestMessageCache_FailureIsNeverCached(t *testing.T) {
	fetcher := newAutoFetcher(`{"debug_id":"d-1","issue":"INVALID_CLIENT","description":"unknown client"}`, 400)
	service := NewMessageCacheService(fetcher)

	service.Fetch(testQuery(), func(response *domainMessage.MessageResponse, err error) {
		require.Error(t, err)
		assert.Nil(t, response)

		var responseErr pkgError.InvalidResponseError
		require.ErrorAs(t, err, &responseErr)
		assert.Equal(t, "d-1", responseErr.DebugID)
		assert.Equal(t, "INVALID_CLIENT", responseErr.Issue)
		assert.Equal(t, "unknown client", responseErr.Description)
	})

	assert.Nil(t, service.GetCached(testQuery()))

	// A later fetch retries the network instead of replaying the failure.
	service.Fetch(testQuery(), func(*domainMessage.MessageResponse, error) {})
	assert.Equal(t, 2, fetcher.callCount())
}

func TestMessageCache_UndecodableBodyIsInvalidResponse(t *testing.T) {
	fetcher := newAutoFetcher(`{{not json`, 200)
	service := NewMessageCacheService(fetcher)

	service.Fetch(testQuery(), func(response *domainMessage.MessageResponse, err error) {
		assert.Nil(t, response)
		var responseErr pkgError.InvalidResponseError
		require.ErrorAs(t, err, &responseErr)
	})
}

func TestMessageCache_IgnoreCacheBypassesEverything(t *testing.T) {
	fetcher := newAutoFetcher(`{"markup":"first"}`, 200)
	service := NewMessageCacheService(fetcher)

	service.Fetch(testQuery(), func(*domainMessage.MessageResponse, error) {})
	require.Equal(t, 1, fetcher.callCount())

	fetcher.respond = func(string) ([]byte, int, error) {
		return []byte(`{"markup":"second"}`), 200, nil
	}

	bypass := testQuery()
	bypass.IgnoreCache = true
	service.Fetch(bypass, func(response *domainMessage.MessageResponse, err error) {
		require.NoError(t, err)
		assert.Equal(t, "second", response.Content.Markup)
	})
	assert.Equal(t, 2, fetcher.callCount())

	// The isolated fetch never polluted the shared cache.
	cached := service.GetCached(testQuery())
	require.NotNil(t, cached)
	assert.Equal(t, "first", cached.Content.Markup)
}

func TestMessageCache_UnkeyableQueryFallsBackToIsolatedFetch(t *testing.T) {
	fetcher := newAutoFetcher(`{"markup":"x"}`, 200)
	service := NewMessageCacheService(fetcher)

	broken := testQuery()
	broken.ClientID = ""

	delivered := false
	service.Fetch(broken, func(response *domainMessage.MessageResponse, err error) {
		delivered = true
		assert.Nil(t, response)
		var urlErr pkgError.InvalidURLError
		require.ErrorAs(t, err, &urlErr)
	})
	assert.True(t, delivered)
	assert.Zero(t, fetcher.callCount())
}

func TestMessageCache_ClearDiscardsLateDeliveries(t *testing.T) {
	fetcher := newManualFetcher()
	service := NewMessageCacheService(fetcher)

	invoked := false
	service.Fetch(testQuery(), func(*domainMessage.MessageResponse, error) {
		invoked = true
	})

	service.Clear()
	fetcher.release(0, []byte(`{"markup":"late"}`), 200, nil)

	assert.False(t, invoked, "cleared registrations must not be delivered")
	assert.Nil(t, service.GetCached(testQuery()), "late deliveries must not repopulate the cache")
}

func TestMessageCache_Stats(t *testing.T) {
	fetcher := newAutoFetcher(`{"markup":"12345"}`, 200)
	service := NewMessageCacheService(fetcher)

	service.Fetch(testQuery(), func(*domainMessage.MessageResponse, error) {})

	stats := service.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Zero(t, stats.InFlight)
	assert.EqualValues(t, 5, stats.TotalSize)
	assert.NotEmpty(t, stats.HumanSize)

	service.Clear()
	assert.Zero(t, service.Stats().Entries)
}
