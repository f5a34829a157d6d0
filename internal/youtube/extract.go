package youtube

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

var (
	ytcfgRegex       = regexp.MustCompile(`ytcfg\.set\s*\(\s*({.+?})\s*\)\s*;`)
	initialDataRegex = regexp.MustCompile(`(?:window\s*\[\s*["']ytInitialData["']\s*\]|ytInitialData)\s*=\s*({.+?})\s*;\s*(?:var\s+meta|</script|\n)`)
	hiddenInputRegex = regexp.MustCompile(`<input\s+type="hidden"\s+name="([A-Za-z0-9_]+)"\s+value="([A-Za-z0-9_\-\.]*)"\s*(?:required|)\s*>`)
)

var errBlobNotFound = errors.New("not found in page")

// ClientContext is what every continuation request has to echo back.
type ClientContext struct {
	APIKey string
	// Context is INNERTUBE_CONTEXT, sent verbatim as the "context" field.
	Context map[string]any
}

// SetLanguage overrides context.client.hl.
func (c ClientContext) SetLanguage(language string) {
	client, ok := c.Context["client"].(map[string]any)
	if !ok {
		client = map[string]any{}
		c.Context["client"] = client
	}
	client["hl"] = language
}

// Page is a fetched youtube page along with the state embedded in it.
type Page struct {
	HTML        string
	Config      map[string]any
	Client      ClientContext
	InitialData map[string]any
}

func decodeBlob(name, text string) (map[string]any, error) {
	decoder := json.NewDecoder(bytes.NewReader([]byte(text)))
	decoder.UseNumber()
	var out map[string]any
	err := decoder.Decode(&out)
	if err != nil {
		return nil, &ParseError{Blob: name, Err: err}
	}
	return out, nil
}

// extractConfig reads the ytcfg.set({...}) call of a page.
func extractConfig(html string) (map[string]any, ClientContext, error) {
	groups := ytcfgRegex.FindStringSubmatch(html)
	if len(groups) < 2 {
		return nil, ClientContext{}, ErrConfigUnavailable
	}
	config, err := decodeBlob("ytcfg", groups[1])
	if err != nil {
		return nil, ClientContext{}, err
	}

	apiKey, ok := config["INNERTUBE_API_KEY"].(string)
	if !ok || apiKey == "" {
		return config, ClientContext{}, fmt.Errorf("%w: missing INNERTUBE_API_KEY", ErrConfigUnavailable)
	}
	context, ok := config["INNERTUBE_CONTEXT"].(map[string]any)
	if !ok {
		return config, ClientContext{}, fmt.Errorf("%w: missing INNERTUBE_CONTEXT", ErrConfigUnavailable)
	}
	return config, ClientContext{APIKey: apiKey, Context: context}, nil
}

// extractInitialData reads the ytInitialData assignment of a page.
func extractInitialData(html string) (map[string]any, error) {
	groups := initialDataRegex.FindStringSubmatch(html)
	if len(groups) < 2 {
		return nil, &ParseError{Blob: "ytInitialData", Err: errBlobNotFound}
	}
	return decodeBlob("ytInitialData", groups[1])
}

type hiddenInput struct {
	name  string
	value string
}

// hiddenInputs returns the hidden inputs of a consent interstitial in
// document order.
func hiddenInputs(html string) []hiddenInput {
	var out []hiddenInput
	for _, groups := range hiddenInputRegex.FindAllStringSubmatch(html, -1) {
		out = append(out, hiddenInput{name: groups[1], value: groups[2]})
	}
	return out
}
