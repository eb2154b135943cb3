package message

import "github.com/google/uuid"

// FetchRequest is the inbound REST shape of a message query.
type FetchRequest struct {
	Environment          string `query:"env" json:"env"`
	ClientID             string `query:"client_id" json:"client_id"`
	MerchantID           string `query:"merchant_id" json:"merchant_id"`
	PartnerAttributionID string `query:"partner_attribution_id" json:"partner_attribution_id"`
	LogoType             string `query:"logo_type" json:"logo_type"`
	BuyerCountry         string `query:"buyer_country" json:"buyer_country"`
	PageType             string `query:"page_type" json:"page_type"`
	Amount               string `query:"amount" json:"amount"`
	OfferType            string `query:"offer" json:"offer"`
	Channel              string `query:"channel" json:"channel"`
	IgnoreCache          bool   `query:"ignore_cache" json:"ignore_cache"`
	InstanceID           string `query:"message_request_id" json:"message_request_id"`
}

// ToQuery derives the message query, minting an instance id when the
// caller did not supply one.
func (r FetchRequest) ToQuery() MessageQuery {
	instanceID := r.InstanceID
	if instanceID == "" {
		instanceID = uuid.NewString()
	}
	return MessageQuery{
		Environment:          r.Environment,
		ClientID:             r.ClientID,
		MerchantID:           r.MerchantID,
		PartnerAttributionID: r.PartnerAttributionID,
		LogoType:             r.LogoType,
		BuyerCountry:         r.BuyerCountry,
		PageType:             r.PageType,
		Amount:               r.Amount,
		OfferType:            r.OfferType,
		Channel:              r.Channel,
		IgnoreCache:          r.IgnoreCache,
		InstanceID:           instanceID,
	}
}
