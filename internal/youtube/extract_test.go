package youtube

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractConfig(t *testing.T) {
	html := watchPage(fixture(t, "ytcfg.json"), "{}")
	config, client, err := extractConfig(html)
	require.NoError(t, err)
	require.Equal(t, "test-api-key", client.APIKey)
	require.Equal(t, "test-api-key", config["INNERTUBE_API_KEY"])
	require.Contains(t, client.Context, "client")

	client.SetLanguage("ja")
	require.Equal(t, "ja", client.Context["client"].(map[string]any)["hl"])
	// the override is visible through the decoded config as well
	require.Equal(t, "ja", config["INNERTUBE_CONTEXT"].(map[string]any)["client"].(map[string]any)["hl"])
}

func TestExtractConfigFailures(t *testing.T) {
	_, _, err := extractConfig("<html></html>")
	require.ErrorIs(t, err, ErrConfigUnavailable)

	_, _, err = extractConfig(`<script>ytcfg.set({"INNERTUBE_CONTEXT": {}});</script>`)
	require.ErrorIs(t, err, ErrConfigUnavailable)

	_, _, err = extractConfig(`<script>ytcfg.set({"INNERTUBE_API_KEY": nope});</script>`)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	require.Equal(t, "ytcfg", parseErr.Blob)
}

func TestExtractInitialData(t *testing.T) {
	testCases := []struct {
		name string
		html string
	}{
		{name: "var and script close", html: `<script>var ytInitialData = {"a": {"b": 1}};</script>`},
		{name: "window subscript", html: `<script>window["ytInitialData"] = {"a": {"b": 1}};` + "\n" + `window.other = 1;</script>`},
		{name: "single quoted subscript", html: `<script>window['ytInitialData'] = {"a": {"b": 1}}; var meta = document.createElement('meta');</script>`},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			data, err := extractInitialData(test.html)
			require.NoError(t, err)
			require.Contains(t, data, "a")
		})
	}

	_, err := extractInitialData("<html></html>")
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	require.ErrorIs(t, err, errBlobNotFound)

	_, err = extractInitialData(`<script>var ytInitialData = {"a": };</script>`)
	require.True(t, errors.As(err, &parseErr))
	require.Equal(t, "ytInitialData", parseErr.Blob)
}

func TestHiddenInputs(t *testing.T) {
	inputs := hiddenInputs(fixture(t, "consent.html"))
	require.Equal(t, []hiddenInput{
		{name: "gl", value: "DE"},
		{name: "m", value: "0"},
		{name: "pc", value: "yt"},
		{name: "bl", value: "boq_identityfrontenduiserver_20240723.08_p0"},
		{name: "hl", value: "en-US"},
	}, inputs)

	require.Empty(t, hiddenInputs(`<input type="text" name="q" value="x">`))
}
