package usecase

import (
	"sync"

	domainMerchant "github.com/finmsg/finmsg/domains/merchant"
	domainMessage "github.com/finmsg/finmsg/domains/message"
	pkgError "github.com/finmsg/finmsg/pkg/error"
	"github.com/sirupsen/logrus"
)

type orchestratorService struct {
	profiles domainMerchant.IProfileCacheUsecase
	messages domainMessage.IMessageCacheUsecase
	observer domainMessage.IMessageObserver

	mu              sync.Mutex
	hasConfig       bool
	lastFetchKey    string
	lastStyleKey    string
	lastIdentityKey string
	lastHash        *string
	lastResponse    *domainMessage.MessageResponse
}

func NewOrchestratorService(
	profiles domainMerchant.IProfileCacheUsecase,
	messages domainMessage.IMessageCacheUsecase,
	observer domainMessage.IMessageObserver,
) domainMessage.IOrchestratorUsecase {
	return &orchestratorService{
		profiles: profiles,
		messages: messages,
		observer: observer,
	}
}

func (o *orchestratorService) ApplyConfig(cfg domainMessage.MessageConfig) {
	fetchKey := cfg.FetchKey()
	styleKey := cfg.StyleKey()
	identityKey := cfg.IdentityKey()

	o.mu.Lock()
	fetchChanged := !o.hasConfig || fetchKey != o.lastFetchKey
	styleChanged := !o.hasConfig || styleKey != o.lastStyleKey
	if identityKey != o.lastIdentityKey {
		// The hash belongs to the old merchant identity.
		o.lastHash = nil
	}
	o.hasConfig = true
	o.lastFetchKey = fetchKey
	o.lastStyleKey = styleKey
	o.lastIdentityKey = identityKey
	hasResponse := o.lastResponse != nil

	if !fetchChanged && hasResponse {
		o.mu.Unlock()
		if styleChanged {
			// Style-only change: re-render from existing data, no
			// network and no cache traffic.
			logrus.Debugf("[ORCH] style-only change, local re-render for %s", cfg.InstanceID)
			o.observer.OnSuccess(cfg.InstanceID)
		}
		return
	}
	o.mu.Unlock()

	o.fetchMessage(cfg, fetchKey)
}

// fetchMessage drives profile resolution then the message fetch. snapshot
// is the fetch-identity key at decision time; any completion arriving
// after a newer ApplyConfig has moved the key on is discarded.
func (o *orchestratorService) fetchMessage(cfg domainMessage.MessageConfig, snapshot string) {
	o.profiles.ResolveHash(cfg.Environment, cfg.ClientID, cfg.MerchantID, func(hash *string) {
		o.mu.Lock()
		if o.lastFetchKey != snapshot {
			o.mu.Unlock()
			logrus.Debugf("[ORCH] discarding stale profile resolution for %s", cfg.InstanceID)
			return
		}
		o.lastHash = hash
		o.mu.Unlock()

		hashValue := ""
		if hash != nil {
			hashValue = *hash
		}
		query := cfg.Query(hashValue)

		if cached := o.messages.GetCached(query); cached != nil {
			// Cache hit finishes synchronously and the loading state
			// is never entered.
			o.applyResult(cfg, snapshot, cached, nil)
			return
		}

		o.observer.OnLoading(cfg.InstanceID)
		o.messages.Fetch(query, func(response *domainMessage.MessageResponse, err error) {
			o.applyResult(cfg, snapshot, response, err)
		})
	})
}

func (o *orchestratorService) applyResult(cfg domainMessage.MessageConfig, snapshot string, response *domainMessage.MessageResponse, err error) {
	o.mu.Lock()
	if o.lastFetchKey != snapshot {
		o.mu.Unlock()
		logrus.Debugf("[ORCH] discarding stale message completion for %s", cfg.InstanceID)
		return
	}
	if err == nil && response == nil {
		err = pkgError.IncompleteError("message fetch completed without a result")
	}
	if err == nil {
		o.lastResponse = response
	}
	o.mu.Unlock()

	if err != nil {
		o.observer.OnError(cfg.InstanceID, err)
		return
	}
	o.observer.OnSuccess(cfg.InstanceID)
}

func (o *orchestratorService) Current() *domainMessage.MessageResponse {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastResponse.Snapshot()
}
