package message

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseQuery() MessageQuery {
	return MessageQuery{
		Environment:  "live",
		ClientID:     "abc",
		MerchantID:   "m-1",
		LogoType:     "primary",
		Amount:       "100",
		BuyerCountry: "US",
		InstanceID:   "instance-1",
	}
}

func TestCacheKey_IgnoresVolatileFields(t *testing.T) {
	q1 := baseQuery()

	q2 := baseQuery()
	q2.InstanceID = "instance-2"
	q2.IgnoreCache = true
	q2.MerchantProfileHash = "deadbeef"

	k1, err := q1.CacheKey()
	require.NoError(t, err)
	k2, err := q2.CacheKey()
	require.NoError(t, err)

	assert.Equal(t, k1, k2, "instance id, ignore-cache and profile hash must not fragment the cache")
}

func TestCacheKey_DiffersOnIdentityFields(t *testing.T) {
	q1 := baseQuery()

	for name, mutate := range map[string]func(*MessageQuery){
		"amount":        func(q *MessageQuery) { q.Amount = "200" },
		"merchant id":   func(q *MessageQuery) { q.MerchantID = "m-2" },
		"buyer country": func(q *MessageQuery) { q.BuyerCountry = "DE" },
		"logo type":     func(q *MessageQuery) { q.LogoType = "alternative" },
		"offer":         func(q *MessageQuery) { q.OfferType = "pay_later" },
		"page type":     func(q *MessageQuery) { q.PageType = "checkout" },
	} {
		q2 := baseQuery()
		mutate(&q2)

		k1, err := q1.CacheKey()
		require.NoError(t, err)
		k2, err := q2.CacheKey()
		require.NoError(t, err)

		assert.NotEqual(t, k1, k2, "cache key must change when %s changes", name)
	}
}

func TestCacheKey_Deterministic(t *testing.T) {
	k1, err := baseQuery().CacheKey()
	require.NoError(t, err)
	k2, err := baseQuery().CacheKey()
	require.NoError(t, err)

	assert.Equal(t, k1, k2)

	// Parameters are ordered lexicographically.
	params := strings.Split(k1, "&")
	for i := 1; i < len(params); i++ {
		assert.LessOrEqual(t, params[i-1], params[i])
	}
}

func TestCacheKey_SkipsEmptyAndLiteralFalse(t *testing.T) {
	q := baseQuery()
	q.LogoType = "false"
	q.MerchantID = ""

	key, err := q.CacheKey()
	require.NoError(t, err)

	assert.NotContains(t, key, "logo_type")
	assert.NotContains(t, key, "merchant_id")
}

func TestRequestKey_CarriesVolatileFields(t *testing.T) {
	q := baseQuery()
	q.IgnoreCache = true
	q.MerchantProfileHash = "deadbeef"

	key, err := q.RequestKey()
	require.NoError(t, err)

	assert.Contains(t, key, "message_request_id=instance-1")
	assert.Contains(t, key, "merchant_profile_hash=deadbeef")
	assert.Contains(t, key, "ignore_cache=true")
}

func TestRequestKey_OmitsIgnoreCacheWhenUnset(t *testing.T) {
	key, err := baseQuery().RequestKey()
	require.NoError(t, err)

	assert.NotContains(t, key, "ignore_cache")
}

func TestKeys_RejectMalformedQueries(t *testing.T) {
	noClient := baseQuery()
	noClient.ClientID = ""
	_, err := noClient.CacheKey()
	assert.Error(t, err)

	badEnv := baseQuery()
	badEnv.Environment = "not-an-env"
	_, err = badEnv.RequestKey()
	assert.Error(t, err)
}

func TestSnapshot_IsIndependentCopy(t *testing.T) {
	original := &MessageResponse{Content: MessageContent{Markup: "hello"}, RequestDuration: 42}

	cp := original.Snapshot()
	cp.RequestDuration = 0

	assert.EqualValues(t, 42, original.RequestDuration)

	var nilResponse *MessageResponse
	assert.Nil(t, nilResponse.Snapshot())
}
