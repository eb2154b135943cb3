package config

import "time"

var (
	AppVersion             = "v1.4.0"
	AppPort                = "3000"
	AppDebug               = false
	AppBasePath            = ""
	AppBasicAuthCredential []string
	AppTrustedProxies      []string // Trusted proxy IP ranges (e.g., "0.0.0.0/0" for all, or specific CIDRs)

	// Integration metadata folded into every message request. The version is
	// AppVersion; name/type identify the host integration.
	IntegrationType = "go-sdk"
	IntegrationName = ""

	// Messaging service endpoints per environment.
	ServiceURLLive    = "https://msg.finmsg.io"
	ServiceURLSandbox = "https://msg.sandbox.finmsg.io"
	ServiceURLStage   = ""
	ServiceURLLocal   = "http://localhost:8444"

	MessagePath = "/v1/presentment/messages"
	ProfilePath = "/v1/presentment/merchant-profile"

	RequestTimeout = 15 * time.Second

	// Merchant profile TTLs, applied when the service response omits its own.
	ProfileSoftTTL = 1 * time.Hour
	ProfileHardTTL = 24 * time.Hour

	PathStorages    = "storages"
	ProfileStoreDB  = "profiles.db"
	ValkeyEnabled   = false
	ValkeyAddress   = "localhost:6379"
	ValkeyPassword  = ""
	ValkeyDB        = 0
	ValkeyKeyPrefix = "finmsg"
)

// ServiceBaseURL resolves the messaging service origin for an environment
// name. Unknown environments resolve to empty, which upstream treats as an
// invalid URL.
func ServiceBaseURL(environment string) string {
	switch environment {
	case "live", "production":
		return ServiceURLLive
	case "sandbox":
		return ServiceURLSandbox
	case "stage":
		return ServiceURLStage
	case "local":
		return ServiceURLLocal
	default:
		return ""
	}
}
