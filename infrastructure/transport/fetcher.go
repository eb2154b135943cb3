package transport

import (
	"io"
	"net/http"

	"github.com/finmsg/finmsg/config"
	"github.com/sirupsen/logrus"
)

// DoneFunc receives the raw outcome of a fetch. It is invoked on a
// transport-managed goroutine; callers are responsible for serializing
// access to their own state.
type DoneFunc func(body []byte, statusCode int, err error)

type IFetcher interface {
	Fetch(url string, headers map[string]string, done DoneFunc)
}

type httpFetcher struct {
	client *http.Client
}

// NewHTTPFetcher returns the production fetcher. One shared client, one
// timeout for every request.
func NewHTTPFetcher() IFetcher {
	return &httpFetcher{
		client: &http.Client{Timeout: config.RequestTimeout},
	}
}

func (f *httpFetcher) Fetch(url string, headers map[string]string, done DoneFunc) {
	go func() {
		req, err := http.NewRequest(http.MethodGet, url, nil)
		if err != nil {
			done(nil, 0, err)
			return
		}
		req.Header.Set("Accept", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			logrus.WithError(err).Debugf("[TRANSPORT] request failed: %s", url)
			done(nil, 0, err)
			return
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			done(nil, resp.StatusCode, err)
			return
		}
		done(body, resp.StatusCode, nil)
	}()
}
