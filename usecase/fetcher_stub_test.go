package usecase

import (
	"sync"

	"github.com/finmsg/finmsg/infrastructure/transport"
)

// stubFetcher records every request and either answers synchronously via
// respond, or parks the completion in pending until released. Synchronous
// delivery keeps the tests deterministic; the production fetcher delivers
// on its own goroutine.
type stubFetcher struct {
	mu      sync.Mutex
	calls   []string
	pending []transport.DoneFunc
	respond func(url string) (body []byte, statusCode int, err error)
}

func newManualFetcher() *stubFetcher {
	return &stubFetcher{}
}

func newAutoFetcher(body string, statusCode int) *stubFetcher {
	return &stubFetcher{
		respond: func(string) ([]byte, int, error) {
			return []byte(body), statusCode, nil
		},
	}
}

func (f *stubFetcher) Fetch(url string, headers map[string]string, done transport.DoneFunc) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	if f.respond == nil {
		f.pending = append(f.pending, done)
		f.mu.Unlock()
		return
	}
	respond := f.respond
	f.mu.Unlock()

	done(respond(url))
}

func (f *stubFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *stubFetcher) release(index int, body []byte, statusCode int, err error) {
	f.mu.Lock()
	done := f.pending[index]
	f.mu.Unlock()
	done(body, statusCode, err)
}
