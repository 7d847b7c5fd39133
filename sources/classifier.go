package sources

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
)

// EventTypeUnknown is the normalized tag for events the registry cannot map.
// Unknown events are persisted and logged, never rejected: new platform
// vocabulary must not break ingestion.
const EventTypeUnknown = "unknown"

// eventTypePattern validates normalized event types: hierarchical, full-stop delimited, [a-zA-Z0-9_.]
var eventTypePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+(\.[a-zA-Z0-9_]+)*$`)

/* Classifier maps platform-specific fields to the normalized event taxonomy
 * Each source declares where its raw event type lives (header or JSON field)
 * and an optional vocabulary map from platform terms to normalized tags
 */
type Classifier struct{}

// NewClassifier creates a new classifier
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns the normalized event type for a delivery from the given source
func (c *Classifier) Classify(src *Source, body []byte, headers http.Header) string {
	raw := c.rawEventType(src, body, headers)
	if raw == "" {
		return EventTypeUnknown
	}

	if normalized, ok := src.EventMap[raw]; ok {
		return normalized
	}

	// Platforms that already emit hierarchical types pass through unchanged
	if eventTypePattern.MatchString(raw) && strings.Contains(raw, ".") {
		return strings.ToLower(raw)
	}

	return EventTypeUnknown
}

func (c *Classifier) rawEventType(src *Source, body []byte, headers http.Header) string {
	if src.EventHeader != "" {
		if v := strings.TrimSpace(headers.Get(src.EventHeader)); v != "" {
			return v
		}
	}

	if src.EventField != "" {
		if v := jsonStringField(body, src.EventField); v != "" {
			return v
		}
	}

	return ""
}

// jsonStringField reads a string field from a JSON object body.
// Dotted paths descend into nested objects (e.g. "event.type").
func jsonStringField(body []byte, path string) string {
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return ""
	}

	parts := strings.Split(path, ".")
	current := doc
	for i, part := range parts {
		value, ok := current[part]
		if !ok {
			return ""
		}
		if i == len(parts)-1 {
			s, _ := value.(string)
			return strings.TrimSpace(s)
		}
		current, ok = value.(map[string]any)
		if !ok {
			return ""
		}
	}
	return ""
}

// ValidEventType reports whether a string is a well-formed normalized event type
func ValidEventType(eventType string) bool {
	return eventTypePattern.MatchString(eventType)
}
