package sources

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// ErrUnresolved is returned when no detection rule matched the request.
// Unattributable deliveries are rejected before persistence so the audit
// trail only contains records that belong to a known platform.
var ErrUnresolved = errors.New("unresolved source")

/* Detector identifies which platform sent a request
 * Detection is a pure function over headers and body with a fixed
 * precedence: marker header, then User-Agent keyword, then a source or
 * provider field inside the JSON body. First match wins.
 */
type Detector struct {
	loader *Loader
}

// NewDetector creates a detector over the given source registry
func NewDetector(loader *Loader) *Detector {
	return &Detector{loader: loader}
}

// Detect returns the source that sent the request, or ErrUnresolved
func (d *Detector) Detect(headers http.Header, body []byte) (*Source, error) {
	enabled := d.enabledSources()

	// 1. Platform-specific marker headers
	for _, src := range enabled {
		if src.MarkerHeader != "" && headers.Get(src.MarkerHeader) != "" {
			return src, nil
		}
	}

	// 2. User-Agent keyword table
	userAgent := strings.ToLower(headers.Get("User-Agent"))
	if userAgent != "" {
		for _, src := range enabled {
			for _, keyword := range src.UserAgentKeywords {
				if strings.Contains(userAgent, strings.ToLower(keyword)) {
					return src, nil
				}
			}
		}
	}

	// 3. source/provider field inside the JSON body
	if id := bodySourceField(body); id != "" {
		for _, src := range enabled {
			if strings.EqualFold(src.ID, id) {
				return src, nil
			}
		}
	}

	return nil, ErrUnresolved
}

func (d *Detector) enabledSources() []*Source {
	all := d.loader.List()
	enabled := make([]*Source, 0, len(all))
	for _, src := range all {
		if src.Enabled {
			enabled = append(enabled, src)
		}
	}
	return enabled
}

// bodySourceField extracts a "source" or "provider" string from a JSON body.
// Returns "" when the body is not a JSON object or carries neither field.
func bodySourceField(body []byte) string {
	var fields struct {
		Source   string `json:"source"`
		Provider string `json:"provider"`
	}
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}
	if fields.Source != "" {
		return fields.Source
	}
	return fields.Provider
}
