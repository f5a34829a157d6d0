package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"ytcomments/internal/assert"
	"ytcomments/internal/htmlutil"
	"ytcomments/internal/jsontree"
	"ytcomments/internal/restyutil"
	"ytcomments/internal/session"
	"ytcomments/internal/telemetry"
)

const consentUrl = "https://consent.youtube.com/save"

const (
	report_downloader_load_page = "downloader.load-page"
	report_downloader_paginate  = "downloader.paginate"
)

type Options struct {
	// Language overrides the locale (context.client.hl) youtube answers in.
	Language string
	// Retries is the number of attempts per continuation request, 0 means 5.
	Retries int
	// RetryDelay is the pause between attempts, 0 means 20 seconds.
	RetryDelay time.Duration
	// RequestTimeout bounds one continuation request, 0 means 60 seconds.
	RequestTimeout time.Duration
	// PageDelay is the pause after each processed response, 0 means 100ms.
	PageDelay time.Duration
	// PageCacheTTL keeps fetched pages around for reuse, 0 disables the cache.
	PageCacheTTL time.Duration
	// DateParser fills in Comment.TimeParsed, nil leaves it out.
	DateParser DateParser
	// Debug receives the fetched page, the embedded json and every
	// continuation response.
	Debug restyutil.InstrumentOutput
}

// Downloader walks youtube's continuation protocol over one Session.
// Sequences from the same Downloader must not be consumed concurrently.
type Downloader struct {
	transport session.Transport
	opts      Options
	cache     *pageCache
	metrics   metrics
	tel       telemetry.API
}

func New(transport session.Transport, tel telemetry.API, opts Options) *Downloader {
	assert.NotNil(transport)
	assert.NotNil(tel)

	if opts.Retries <= 0 {
		opts.Retries = 5
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 20 * time.Second
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}
	if opts.PageDelay <= 0 {
		opts.PageDelay = 100 * time.Millisecond
	}

	return &Downloader{
		transport: transport,
		opts:      opts,
		cache:     newPageCache(opts.PageCacheTTL),
		metrics:   newMetrics(),
		tel:       telemetry.NewScopedAPI("youtube", tel),
	}
}

func (d *Downloader) newExecutor(client ClientContext) executor {
	return executor{
		transport:  d.transport,
		client:     client,
		retries:    d.opts.Retries,
		retryDelay: d.opts.RetryDelay,
		timeout:    d.opts.RequestTimeout,
		metrics:    d.metrics,
		tel:        d.tel,
	}
}

func (d *Downloader) newNormalizer() normalizer {
	return normalizer{
		parseDate: d.opts.DateParser,
		language:  d.opts.Language,
		tel:       d.tel,
	}
}

func (d *Downloader) dump(id, contents string) {
	if d.opts.Debug == nil {
		return
	}
	d.opts.Debug.Write(id, contents)
}

func (d *Downloader) dumpJSON(id string, value any) {
	if d.opts.Debug == nil {
		return
	}
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")
	err := encoder.Encode(value)
	if err != nil {
		d.tel.ReportWarning(report_downloader_load_page, fmt.Errorf("dump %s: %w", id, err))
		return
	}
	d.opts.Debug.Write(id, buf.String())
}

// fetchHTML gets a page, agreeing to the cookie consent interstitial if
// youtube redirects there.
func (d *Downloader) fetchHTML(ctx context.Context, pageUrl string) (string, error) {
	if html, ok := d.cache.get(pageUrl); ok {
		d.tel.ReportDebug("page cache hit", pageUrl)
		return html, nil
	}

	res, err := d.transport.Get(ctx, pageUrl)
	if err != nil {
		d.tel.ReportBroken(report_downloader_load_page, fmt.Errorf("fetch: %w", err), pageUrl)
		return "", err
	}

	if res.URL != nil && strings.Contains(res.URL.String(), "consent") {
		inputs := hiddenInputs(res.Body)
		params := map[string]string{}
		for _, input := range inputs {
			params[input.name] = input.value
		}
		params["continue"] = pageUrl
		params["set_eom"] = "false"
		params["set_ytc"] = "true"
		params["set_apyt"] = "true"

		endpoint := consentUrl
		if len(inputs) > 0 {
			action, ok := htmlutil.FormAction(res.URL, res.Body, inputs[0].name)
			if ok {
				endpoint = action
			}
		}
		d.tel.ReportDebug("agreeing to cookie consent", endpoint, len(inputs))

		res, err = d.transport.PostQuery(ctx, endpoint, params)
		if err != nil {
			d.tel.ReportBroken(report_downloader_load_page, fmt.Errorf("consent: %w", err), endpoint)
			return "", err
		}
	}

	d.cache.add(pageUrl, res.Body)
	return res.Body, nil
}

// loadPage fetches a page and extracts the state embedded in it.
func (d *Downloader) loadPage(ctx context.Context, pageUrl string) (Page, error) {
	html, err := d.fetchHTML(ctx, pageUrl)
	if err != nil {
		return Page{}, err
	}
	d.dump("ytResponse.html", html)

	config, client, err := extractConfig(html)
	if err != nil {
		return Page{}, err
	}
	d.dumpJSON("ytcfg.json", config)
	if d.opts.Language != "" {
		client.SetLanguage(d.opts.Language)
	}

	initialData, err := extractInitialData(html)
	if err != nil {
		d.tel.ReportBroken(report_downloader_load_page, err, pageUrl)
		return Page{}, err
	}
	d.dumpJSON("ytInitialData.json", initialData)

	return Page{
		HTML:        html,
		Config:      config,
		Client:      client,
		InitialData: initialData,
	}, nil
}

// continuations returns every continuation endpoint under root in discovery
// order.
func (d *Downloader) continuations(root any) []Continuation {
	var out []Continuation
	for endpoint := range jsontree.Search(root, "continuationEndpoint") {
		c, ok := continuationFromEndpoint(endpoint)
		if !ok {
			d.tel.ReportWarning(report_downloader_paginate, fmt.Errorf("malformed continuation endpoint"))
			continue
		}
		out = append(out, c)
	}
	return out
}

// actions returns the reload actions of a response followed by its append
// actions.
func actions(response map[string]any) []map[string]any {
	out := jsontree.Maps(response, "reloadContinuationItemsCommand")
	return append(out, jsontree.Maps(response, "appendContinuationItemsAction")...)
}

func continuationItems(action map[string]any) []map[string]any {
	items, _ := action["continuationItems"].([]any)
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if ok {
			out = append(out, m)
		}
	}
	return out
}

// serverError returns the error message youtube embedded in response, if
// any.
func serverError(response map[string]any) error {
	for value := range jsontree.Search(response, "externalErrorMessage") {
		if value == nil {
			continue
		}
		message, ok := value.(string)
		if !ok {
			encoded, _ := json.Marshal(value)
			message = string(encoded)
		}
		if message == "" {
			continue
		}
		return &ServerError{Message: message}
	}
	return nil
}

// pageHandler processes one continuation response, it returns false once the
// consumer stopped pulling.
type pageHandler func(response map[string]any) bool

// paginate drains work, handing every response to handle. It stops quietly
// when the worklist is empty or a request yields no data.
func (d *Downloader) paginate(ctx context.Context, exec executor, work *worklist, handle pageHandler) error {
	responses := 0
	for {
		next, ok := work.pop()
		if !ok {
			return nil
		}

		response, err := exec.execute(ctx, next)
		if err != nil {
			d.tel.ReportBroken(report_downloader_paginate, err, next.APIURL)
			return err
		}
		if len(response) == 0 {
			d.tel.ReportDebug("no more data", work.size())
			return nil
		}
		d.dumpJSON(fmt.Sprintf("%d_response.json", responses), response)
		responses++

		err = serverError(response)
		if err != nil {
			d.tel.ReportWarning(report_downloader_paginate, err)
			return err
		}

		if !handle(response) {
			return nil
		}

		err = sleep(ctx, d.opts.PageDelay)
		if err != nil {
			return err
		}
	}
}
