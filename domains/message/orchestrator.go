package message

import "strings"

// MessageConfig is one applied configuration of a rendered message. Fetch
// identity and style are tracked separately so a pure style change can be
// re-rendered locally without any network traffic.
type MessageConfig struct {
	Environment          string
	ClientID             string
	MerchantID           string
	PartnerAttributionID string
	Amount               string
	PageType             string
	OfferType            string
	BuyerCountry         string
	Channel              string
	LogoType             string

	Color     string
	Alignment string

	InstanceID string
}

// FetchKey captures every field whose change requires new data.
func (c MessageConfig) FetchKey() string {
	return strings.Join([]string{
		c.Environment, c.ClientID, c.MerchantID, c.PartnerAttributionID,
		c.Amount, c.PageType, c.OfferType, c.BuyerCountry, c.Channel, c.LogoType,
	}, "|")
}

// StyleKey captures the fields a local re-render can absorb.
func (c MessageConfig) StyleKey() string {
	return strings.Join([]string{c.Color, c.Alignment}, "|")
}

// IdentityKey is the merchant identity; when it changes, a previously
// resolved profile hash is no longer valid.
func (c MessageConfig) IdentityKey() string {
	return strings.Join([]string{c.Environment, c.ClientID, c.MerchantID}, "|")
}

// Query derives the message query for this configuration with the given
// resolved profile hash (empty when none).
func (c MessageConfig) Query(hash string) MessageQuery {
	return MessageQuery{
		Environment:          c.Environment,
		ClientID:             c.ClientID,
		MerchantID:           c.MerchantID,
		PartnerAttributionID: c.PartnerAttributionID,
		LogoType:             c.LogoType,
		BuyerCountry:         c.BuyerCountry,
		PageType:             c.PageType,
		Amount:               c.Amount,
		OfferType:            c.OfferType,
		Channel:              c.Channel,
		MerchantProfileHash:  hash,
		InstanceID:           c.InstanceID,
	}
}

// IMessageObserver receives lifecycle notifications for one message
// instance. OnLoading is skipped entirely when a fetch is satisfied
// synchronously from cache.
type IMessageObserver interface {
	OnLoading(instanceID string)
	OnSuccess(instanceID string)
	OnError(instanceID string, err error)
}

type IOrchestratorUsecase interface {
	// ApplyConfig classifies the change against the previous configuration
	// and performs the minimum necessary action: nothing, a local
	// re-render, or a profile+message fetch.
	ApplyConfig(cfg MessageConfig)
	// Current returns the last successfully applied response, if any.
	Current() *MessageResponse
}
