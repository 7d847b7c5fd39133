package sources

import (
	"fmt"

	"github.com/entegrahub/webhook-gateway/webhook/signature"
)

/* Source represents one external marketplace platform that can deliver webhooks
 * Maps a source ID to its detection markers, signature scheme and event rules
 */
type Source struct {
	ID                string
	Enabled           bool
	MarkerHeader      string   // distinguishing header set only by this platform
	UserAgentKeywords []string // case-insensitive substrings matched against User-Agent
	Signature         signature.Scheme
	Secret            string            // shared secret; empty means verification is skipped
	EventHeader       string            // header carrying the platform event type, if any
	EventField        string            // JSON body field carrying the platform event type
	EventMap          map[string]string // platform vocabulary -> normalized event type
	TestEvent         string            // event type synthesized by the manual test endpoint
}

// Validate checks if the source configuration is valid
func (s *Source) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("source id cannot be empty")
	}
	if s.MarkerHeader == "" && len(s.UserAgentKeywords) == 0 {
		return fmt.Errorf("source %s needs a marker header or user-agent keywords to be detectable", s.ID)
	}
	if s.EventHeader == "" && s.EventField == "" {
		return fmt.Errorf("source %s needs an event header or event field", s.ID)
	}
	if err := s.Signature.Validate(); err != nil {
		return fmt.Errorf("invalid signature scheme for source %s: %w", s.ID, err)
	}
	if s.Secret != "" && s.Signature.Header == "" {
		return fmt.Errorf("source %s has a secret but no signature header", s.ID)
	}
	for raw, normalized := range s.EventMap {
		if raw == "" || normalized == "" {
			return fmt.Errorf("source %s has an empty event mapping entry", s.ID)
		}
	}
	return nil
}

// HasSecret reports whether signature verification is enforced for this source
func (s *Source) HasSecret() bool {
	return s.Secret != ""
}
