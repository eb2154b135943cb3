package message

import (
	"fmt"
	"net/url"
	"time"

	"github.com/finmsg/finmsg/config"
)

// MessageQuery is the fully-specified identity of one message request.
// InstanceID, IgnoreCache and MerchantProfileHash are volatile: they reach
// the wire but never the cache key.
type MessageQuery struct {
	Environment          string
	ClientID             string
	MerchantID           string
	PartnerAttributionID string
	LogoType             string
	BuyerCountry         string
	PageType             string
	Amount               string
	OfferType            string
	Channel              string
	MerchantProfileHash  string
	IgnoreCache          bool
	InstanceID           string
}

// addParam filters the way the wire format expects: absent, empty and the
// literal "false" all mean "not sent".
func addParam(values url.Values, name, value string) {
	if value == "" || value == "false" {
		return
	}
	values.Set(name, value)
}

func (q MessageQuery) baseValues() url.Values {
	values := url.Values{}
	addParam(values, "env", q.Environment)
	addParam(values, "client_id", q.ClientID)
	addParam(values, "merchant_id", q.MerchantID)
	addParam(values, "partner_attribution_id", q.PartnerAttributionID)
	addParam(values, "logo_type", q.LogoType)
	addParam(values, "buyer_country", q.BuyerCountry)
	addParam(values, "page_type", q.PageType)
	addParam(values, "amount", q.Amount)
	addParam(values, "offer", q.OfferType)
	addParam(values, "channel", q.Channel)
	addParam(values, "sdk_version", config.AppVersion)
	addParam(values, "integration_type", config.IntegrationType)
	addParam(values, "integration_name", config.IntegrationName)
	return values
}

func (q MessageQuery) validateKeyable() error {
	if q.ClientID == "" {
		return fmt.Errorf("message query has no client id")
	}
	if config.ServiceBaseURL(q.Environment) == "" {
		return fmt.Errorf("message query has unknown environment %q", q.Environment)
	}
	return nil
}

// CacheKey is the canonical query string identifying this query for caching.
// url.Values.Encode sorts by parameter name, so two logically identical
// queries always produce byte-identical keys.
func (q MessageQuery) CacheKey() (string, error) {
	if err := q.validateKeyable(); err != nil {
		return "", err
	}
	return q.baseValues().Encode(), nil
}

// RequestKey is the canonical query string for the actual request URL. It
// additionally carries the per-view instance id, the ignore-cache flag and
// the resolved merchant profile hash.
func (q MessageQuery) RequestKey() (string, error) {
	if err := q.validateKeyable(); err != nil {
		return "", err
	}
	values := q.baseValues()
	addParam(values, "message_request_id", q.InstanceID)
	addParam(values, "merchant_profile_hash", q.MerchantProfileHash)
	if q.IgnoreCache {
		values.Set("ignore_cache", "true")
	}
	return values.Encode(), nil
}

// RequestURL builds the full message endpoint URL for this query.
func (q MessageQuery) RequestURL() (string, error) {
	key, err := q.RequestKey()
	if err != nil {
		return "", err
	}
	return config.ServiceBaseURL(q.Environment) + config.MessagePath + "?" + key, nil
}

// MessageContent is the decoded success payload. The core only inspects the
// hash; everything else is passed through to the renderer.
type MessageContent struct {
	Markup              string `json:"markup"`
	OfferType           string `json:"offer_type,omitempty"`
	OfferCountry        string `json:"offer_country,omitempty"`
	MerchantProfileHash string `json:"merchant_profile_hash,omitempty"`
}

// MessageResponse pairs the payload with the observed fetch latency.
// RequestDuration is observational metadata only: it is zeroed on cache-hit
// deliveries and never participates in equality or cache keys.
type MessageResponse struct {
	Content         MessageContent
	RequestDuration time.Duration
}

// Snapshot returns an independent copy so one caller mutating
// RequestDuration cannot leak into the cache or other callers.
func (r *MessageResponse) Snapshot() *MessageResponse {
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}

// ResponseCallback receives the outcome of a message fetch. Exactly one of
// response/err is set.
type ResponseCallback func(response *MessageResponse, err error)

type CacheStats struct {
	Entries   int    `json:"entries"`
	InFlight  int    `json:"in_flight"`
	TotalSize int64  `json:"total_size"`
	HumanSize string `json:"human_size"`
}

type IMessageCacheUsecase interface {
	// GetCached is a pure lookup by cache key; it never touches the network.
	GetCached(query MessageQuery) *MessageResponse
	// Fetch resolves the query to a response, serving from cache when it
	// can and de-duplicating concurrent identical requests otherwise.
	Fetch(query MessageQuery, callback ResponseCallback)
	Clear()
	Stats() CacheStats
}
