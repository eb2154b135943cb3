package merchant

import (
	"strings"
	"time"
)

// MerchantProfile is the durable cache record for one merchant identity.
// SoftExpiry < HardExpiry always: between the two the record is served
// stale while a background refresh runs; past HardExpiry it reads as
// absent (but is not eagerly deleted).
type MerchantProfile struct {
	Hash       string    `json:"hash"`
	Disabled   bool      `json:"disabled"`
	SoftExpiry time.Time `json:"soft_expiry"`
	HardExpiry time.Time `json:"hard_expiry"`
}

func (p MerchantProfile) SoftExpired(now time.Time) bool {
	return !now.Before(p.SoftExpiry)
}

func (p MerchantProfile) HardExpired(now time.Time) bool {
	return !now.Before(p.HardExpiry)
}

// CacheKey builds the profile cache key. Granularity is the merchant
// identity, coarser than a message query.
func CacheKey(environment, clientID, merchantID string) string {
	return strings.Join([]string{environment, clientID, merchantID}, "|")
}

// HashCallback receives a resolved profile hash. nil means the profile is
// disabled or the fetch failed; consumers cannot tell the two apart.
type HashCallback func(hash *string)

type ProfileStats struct {
	InFlight int `json:"in_flight"`
}

type IProfileCacheUsecase interface {
	// GetHash is the synchronous read path: durable store only, no
	// network on the caller's behalf. A soft-expired record still
	// returns its hash and triggers one de-duplicated background
	// refresh.
	GetHash(environment, clientID, merchantID string) *string
	// ResolveHash prefers the synchronous path and falls back to a
	// de-duplicated network fetch, delivering to every caller that
	// joined the in-flight key in join order.
	ResolveHash(environment, clientID, merchantID string, callback HashCallback)
	Stats() ProfileStats
}
