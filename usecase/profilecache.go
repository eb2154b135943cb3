package usecase

import (
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"github.com/finmsg/finmsg/config"
	domainMerchant "github.com/finmsg/finmsg/domains/merchant"
	"github.com/finmsg/finmsg/infrastructure/keystore"
	"github.com/finmsg/finmsg/infrastructure/transport"
	"github.com/sirupsen/logrus"
)

// profileFlight is one in-flight profile request. A background refresh is
// a flight with no callbacks.
type profileFlight struct {
	callbacks []domainMerchant.HashCallback
}

type profileCacheService struct {
	store   keystore.IKeyValueStore
	fetcher transport.IFetcher

	mu       sync.Mutex
	inflight map[string]*profileFlight

	now func() time.Time
}

func NewProfileCacheService(store keystore.IKeyValueStore, fetcher transport.IFetcher) domainMerchant.IProfileCacheUsecase {
	return &profileCacheService{
		store:    store,
		fetcher:  fetcher,
		inflight: make(map[string]*profileFlight),
		now:      time.Now,
	}
}

// read returns the stored record, or nil when absent, undecodable or past
// its hard TTL. Hard-expired records are left in place; the next
// successful fetch overwrites them.
func (s *profileCacheService) read(key string) *domainMerchant.MerchantProfile {
	blob, err := s.store.Get(key)
	if err != nil {
		logrus.WithError(err).Warnf("[PROFILE] keystore read failed for %s", key)
		return nil
	}
	if blob == nil {
		return nil
	}

	var record domainMerchant.MerchantProfile
	if err := json.Unmarshal(blob, &record); err != nil {
		logrus.WithError(err).Warnf("[PROFILE] corrupt record for %s", key)
		return nil
	}
	if record.HardExpired(s.now()) {
		return nil
	}
	return &record
}

func hashOf(record *domainMerchant.MerchantProfile) *string {
	if record == nil || record.Disabled {
		return nil
	}
	hash := record.Hash
	return &hash
}

func (s *profileCacheService) GetHash(environment, clientID, merchantID string) *string {
	key := domainMerchant.CacheKey(environment, clientID, merchantID)
	record := s.read(key)
	if record == nil {
		return nil
	}
	if record.SoftExpired(s.now()) {
		s.refreshInBackground(environment, clientID, merchantID, key)
	}
	return hashOf(record)
}

func (s *profileCacheService) ResolveHash(environment, clientID, merchantID string, callback domainMerchant.HashCallback) {
	key := domainMerchant.CacheKey(environment, clientID, merchantID)

	// Synchronous path: a valid record answers immediately, even when
	// disabled. Soft-stale records additionally kick off one refresh.
	if record := s.read(key); record != nil {
		if record.SoftExpired(s.now()) {
			s.refreshInBackground(environment, clientID, merchantID, key)
		}
		callback(hashOf(record))
		return
	}

	s.mu.Lock()
	if flight, ok := s.inflight[key]; ok {
		flight.callbacks = append(flight.callbacks, callback)
		s.mu.Unlock()
		return
	}
	flight := &profileFlight{callbacks: []domainMerchant.HashCallback{callback}}
	s.inflight[key] = flight
	s.mu.Unlock()

	s.startFetch(environment, clientID, merchantID, key, flight)
}

// refreshInBackground starts a fire-and-forget refresh unless one is
// already in flight for the key.
func (s *profileCacheService) refreshInBackground(environment, clientID, merchantID, key string) {
	s.mu.Lock()
	if _, ok := s.inflight[key]; ok {
		s.mu.Unlock()
		return
	}
	flight := &profileFlight{}
	s.inflight[key] = flight
	s.mu.Unlock()

	s.startFetch(environment, clientID, merchantID, key, flight)
}

// profilePayload is the wire shape of the merchant-profile endpoint. TTLs
// are in seconds; zero falls back to the configured defaults.
type profilePayload struct {
	Hash     string `json:"hash"`
	Disabled bool   `json:"disabled"`
	TTLSoft  int64  `json:"ttl_soft"`
	TTLHard  int64  `json:"ttl_hard"`
}

func (s *profileCacheService) startFetch(environment, clientID, merchantID, key string, flight *profileFlight) {
	base := config.ServiceBaseURL(environment)
	if base == "" || clientID == "" {
		s.resolve(key, flight, nil)
		return
	}

	values := url.Values{}
	values.Set("client_id", clientID)
	if merchantID != "" {
		values.Set("merchant_id", merchantID)
	}
	values.Set("sdk_version", config.AppVersion)
	requestURL := base + config.ProfilePath + "?" + values.Encode()

	s.fetcher.Fetch(requestURL, nil, func(body []byte, statusCode int, err error) {
		record := s.decodeRecord(body, statusCode, err)
		if record != nil {
			blob, marshalErr := json.Marshal(record)
			if marshalErr == nil {
				if setErr := s.store.Set(key, blob); setErr != nil {
					logrus.WithError(setErr).Warnf("[PROFILE] keystore write failed for %s", key)
				}
			}
		}
		s.resolve(key, flight, record)
	})
}

// decodeRecord turns a fetch outcome into a storable record, or nil on any
// failure. Failures never overwrite a previously stored (possibly stale)
// record.
func (s *profileCacheService) decodeRecord(body []byte, statusCode int, err error) *domainMerchant.MerchantProfile {
	if err != nil {
		logrus.WithError(err).Debug("[PROFILE] fetch failed")
		return nil
	}
	if statusCode < 200 || statusCode >= 300 {
		logrus.Debugf("[PROFILE] fetch returned status %d", statusCode)
		return nil
	}

	var payload profilePayload
	if jsonErr := json.Unmarshal(body, &payload); jsonErr != nil {
		logrus.WithError(jsonErr).Debug("[PROFILE] undecodable profile body")
		return nil
	}

	softTTL := config.ProfileSoftTTL
	if payload.TTLSoft > 0 {
		softTTL = time.Duration(payload.TTLSoft) * time.Second
	}
	hardTTL := config.ProfileHardTTL
	if payload.TTLHard > 0 {
		hardTTL = time.Duration(payload.TTLHard) * time.Second
	}
	if hardTTL <= softTTL {
		hardTTL = softTTL + time.Minute
	}

	now := s.now()
	return &domainMerchant.MerchantProfile{
		Hash:       payload.Hash,
		Disabled:   payload.Disabled,
		SoftExpiry: now.Add(softTTL),
		HardExpiry: now.Add(hardTTL),
	}
}

// resolve removes the in-flight registration and fans out to its waiters
// in join order.
func (s *profileCacheService) resolve(key string, flight *profileFlight, record *domainMerchant.MerchantProfile) {
	s.mu.Lock()
	if current, ok := s.inflight[key]; ok && current == flight {
		delete(s.inflight, key)
	}
	s.mu.Unlock()

	for _, callback := range flight.callbacks {
		callback(hashOf(record))
	}
}

func (s *profileCacheService) Stats() domainMerchant.ProfileStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domainMerchant.ProfileStats{InFlight: len(s.inflight)}
}
