package usecase

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	domainMessage "github.com/finmsg/finmsg/domains/message"
	"github.com/finmsg/finmsg/infrastructure/transport"
	pkgError "github.com/finmsg/finmsg/pkg/error"
	"github.com/sirupsen/logrus"
)

// messageFlight is one in-flight network request plus everyone waiting on
// it. Completions compare flight pointers so a flight orphaned by Clear()
// can never deliver into a newer registration for the same key.
type messageFlight struct {
	callbacks []domainMessage.ResponseCallback
}

type messageCacheService struct {
	fetcher  transport.IFetcher
	mu       sync.RWMutex
	cache    map[string]*domainMessage.MessageResponse
	inflight map[string]*messageFlight
}

func NewMessageCacheService(fetcher transport.IFetcher) domainMessage.IMessageCacheUsecase {
	return &messageCacheService{
		fetcher:  fetcher,
		cache:    make(map[string]*domainMessage.MessageResponse),
		inflight: make(map[string]*messageFlight),
	}
}

func (s *messageCacheService) GetCached(query domainMessage.MessageQuery) *domainMessage.MessageResponse {
	key, err := query.CacheKey()
	if err != nil {
		return nil
	}

	s.mu.RLock()
	cached := s.cache[key]
	s.mu.RUnlock()
	if cached == nil {
		return nil
	}

	response := cached.Snapshot()
	response.RequestDuration = 0
	return response
}

func (s *messageCacheService) Fetch(query domainMessage.MessageQuery, callback domainMessage.ResponseCallback) {
	if query.IgnoreCache {
		s.execute(query, callback)
		return
	}

	key, err := query.CacheKey()
	if err != nil {
		// Un-keyable queries still get a response, just without the
		// shared cache or dedup around them.
		logrus.WithError(err).Debug("[MSGCACHE] query not cacheable, fetching isolated")
		s.execute(query, callback)
		return
	}

	s.mu.Lock()
	if cached, ok := s.cache[key]; ok {
		s.mu.Unlock()
		response := cached.Snapshot()
		response.RequestDuration = 0
		callback(response, nil)
		return
	}
	if flight, ok := s.inflight[key]; ok {
		flight.callbacks = append(flight.callbacks, callback)
		s.mu.Unlock()
		return
	}
	flight := &messageFlight{callbacks: []domainMessage.ResponseCallback{callback}}
	s.inflight[key] = flight
	s.mu.Unlock()

	s.execute(query, func(response *domainMessage.MessageResponse, err error) {
		s.mu.Lock()
		if current, ok := s.inflight[key]; !ok || current != flight {
			// Clear() dropped this registration mid-flight; the result
			// has no waiters and must not repopulate the cache.
			s.mu.Unlock()
			logrus.Debugf("[MSGCACHE] discarding late delivery for cleared key")
			return
		}
		delete(s.inflight, key)
		if err == nil && response != nil {
			s.cache[key] = response.Snapshot()
		}
		s.mu.Unlock()

		if response == nil && err == nil {
			err = pkgError.IncompleteError("message fetch completed without a result")
		}
		for _, cb := range flight.callbacks {
			cb(response.Snapshot(), err)
		}
	})
}

// execute performs one network round trip, bypassing cache and dedup.
func (s *messageCacheService) execute(query domainMessage.MessageQuery, done domainMessage.ResponseCallback) {
	requestURL, err := query.RequestURL()
	if err != nil {
		done(nil, pkgError.InvalidURLError(err.Error()))
		return
	}

	start := time.Now()
	s.fetcher.Fetch(requestURL, nil, func(body []byte, statusCode int, err error) {
		if err != nil {
			done(nil, pkgError.InvalidResponseError{HTTPStatus: statusCode, Description: err.Error()})
			return
		}
		if statusCode < 200 || statusCode >= 300 {
			done(nil, decodeErrorPayload(statusCode, body))
			return
		}

		var content domainMessage.MessageContent
		if err := json.Unmarshal(body, &content); err != nil {
			done(nil, pkgError.InvalidResponseError{HTTPStatus: statusCode, Description: "undecodable message body"})
			return
		}

		done(&domainMessage.MessageResponse{
			Content:         content,
			RequestDuration: time.Since(start),
		}, nil)
	})
}

func (s *messageCacheService) Clear() {
	s.mu.Lock()
	s.cache = make(map[string]*domainMessage.MessageResponse)
	s.inflight = make(map[string]*messageFlight)
	s.mu.Unlock()
}

func (s *messageCacheService) Stats() domainMessage.CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, response := range s.cache {
		total += int64(len(response.Content.Markup))
	}
	return domainMessage.CacheStats{
		Entries:   len(s.cache),
		InFlight:  len(s.inflight),
		TotalSize: total,
		HumanSize: humanize.Bytes(uint64(total)),
	}
}

// decodeErrorPayload extracts the service error envelope from a non-2xx
// body, best effort.
func decodeErrorPayload(statusCode int, body []byte) error {
	payload := struct {
		DebugID     string `json:"debug_id"`
		Issue       string `json:"issue"`
		Description string `json:"description"`
	}{}
	_ = json.Unmarshal(body, &payload)

	return pkgError.InvalidResponseError{
		HTTPStatus:  statusCode,
		DebugID:     payload.DebugID,
		Issue:       payload.Issue,
		Description: payload.Description,
	}
}
