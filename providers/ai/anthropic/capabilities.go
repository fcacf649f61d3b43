package anthropic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/carlmei/promptcache/providers/ai"
)

// Known beta feature header values for Anthropic's anthropic-beta header.
// Users can pass these (or any future beta string) via Capabilities.BetaFeatures.
const (
	// BetaExtendedCacheTTL enables the 1-hour cache lifetime on cache_control
	// blocks. Without it the API only accepts the default 5-minute TTL.
	BetaExtendedCacheTTL = "extended-cache-ttl-2025-04-11"

	// BetaTokenCounting enables the standalone token counting endpoint.
	// Nothing in this module calls that endpoint; the constant is provided
	// for callers composing their own BetaFeatures lists.
	BetaTokenCounting = "token-counting-2024-11-01"
)

// ErrExtendedTTLWithoutBeta is returned when a request asks for the 1-hour
// cache TTL but the extended-cache-ttl beta feature is not configured. The
// check runs locally so the request never reaches the network.
var ErrExtendedTTLWithoutBeta = errors.New(`cache TTL "1h" requires the ` + BetaExtendedCacheTTL + ` beta feature`)

// Capabilities describes configurable features for the Anthropic provider.
// All fields default to false/empty; set them via
// [AnthropicProvider.WithCapabilities].
type Capabilities struct {
	// PromptCaching sends the system prompt as a content-block array and
	// attaches cache_control to the last block (and to the last tool when
	// tools are present).
	PromptCaching bool

	// CacheTTL selects the cache lifetime for flagged blocks. Empty leaves
	// the ttl field off the wire, which the API treats as 5 minutes.
	// [ai.CacheTTL1h] additionally requires [BetaExtendedCacheTTL] in
	// BetaFeatures; see [Capabilities.validate].
	CacheTTL ai.CacheTTL

	// BetaFeatures is an optional list of anthropic-beta header values to send.
	BetaFeatures []string
}

// validate rejects capability combinations the API would refuse, so the
// failure happens before any network call. The 1-hour TTL is the interesting
// case: without the beta opt-in the API rejects the request remotely, and we
// refuse it locally instead.
func (capabilities Capabilities) validate() error {
	switch capabilities.CacheTTL {
	case "", ai.CacheTTL5m:
		return nil
	case ai.CacheTTL1h:
		if !capabilities.hasBetaFeature(BetaExtendedCacheTTL) {
			return ErrExtendedTTLWithoutBeta
		}
		return nil
	default:
		return fmt.Errorf("unsupported cache TTL %q (valid values: %q, %q)", capabilities.CacheTTL, ai.CacheTTL5m, ai.CacheTTL1h)
	}
}

func (capabilities Capabilities) hasBetaFeature(feature string) bool {
	for _, configured := range capabilities.BetaFeatures {
		if configured == feature {
			return true
		}
	}
	return false
}

// betaHeaderValue returns the comma-joined anthropic-beta header value, or an
// empty string when no beta features are configured.
func (capabilities Capabilities) betaHeaderValue() string {
	if len(capabilities.BetaFeatures) == 0 {
		return ""
	}
	return strings.Join(capabilities.BetaFeatures, ",")
}
