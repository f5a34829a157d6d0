package youtube

import (
	"context"
	"fmt"
	"net/http"
	"time"
	"ytcomments/internal/jsontree"
	"ytcomments/internal/session"
	"ytcomments/internal/telemetry"
)

const youtubeOrigin = "https://www.youtube.com"

const (
	report_executor_execute = "executor.execute"
)

// Continuation is an opaque server issued handle to the next page of some
// listing, along with the api path it has to be sent to.
type Continuation struct {
	APIURL string
	Token  string
}

// continuationFromEndpoint reads a continuation out of an endpoint or
// command object.
func continuationFromEndpoint(endpoint any) (Continuation, bool) {
	apiUrl, ok := jsontree.String(endpoint, "commandMetadata", "webCommandMetadata", "apiUrl")
	if !ok {
		return Continuation{}, false
	}
	token, ok := jsontree.String(endpoint, "continuationCommand", "token")
	if !ok || token == "" {
		return Continuation{}, false
	}
	return Continuation{APIURL: apiUrl, Token: token}, true
}

type executor struct {
	transport  session.Transport
	client     ClientContext
	retries    int
	retryDelay time.Duration
	timeout    time.Duration
	metrics    metrics
	tel        telemetry.API
}

// execute issues a single continuation request.
//
// It returns the decoded body on success, an empty map when youtube
// permanently rejected the request (403, 413) and nil once every retry was
// spent on timeouts or unexpected statuses. Only cancellation and transport
// failures other than timeouts are errors.
func (e executor) execute(ctx context.Context, c Continuation) (map[string]any, error) {
	endpoint := youtubeOrigin + c.APIURL
	query := map[string]string{"key": e.client.APIKey}
	payload := map[string]any{
		"context":      e.client.Context,
		"continuation": c.Token,
	}

	for attempt := 1; attempt <= e.retries; attempt++ {
		if attempt > 1 {
			e.metrics.retries.Add(ctx, 1)
		}
		e.metrics.requests.Add(ctx, 1)

		status, body, err := e.transport.PostJSON(ctx, endpoint, query, payload, e.timeout)
		switch {
		case err != nil && ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil && session.IsTimeout(err):
			e.tel.ReportWarning(
				report_executor_execute,
				fmt.Errorf("attempt %d timed out: %w", attempt, err),
				c.APIURL,
			)
		case err != nil:
			return nil, fmt.Errorf("continuation request: %w", err)
		case status == http.StatusOK:
			if body == nil {
				body = map[string]any{}
			}
			return body, nil
		case status == http.StatusForbidden || status == http.StatusRequestEntityTooLarge:
			e.tel.ReportDebug(report_executor_execute, "rejected", status, c.APIURL)
			return map[string]any{}, nil
		default:
			e.tel.ReportWarning(
				report_executor_execute,
				fmt.Errorf("attempt %d: unexpected status %d", attempt, status),
				c.APIURL,
			)
		}

		if attempt < e.retries {
			err = sleep(ctx, e.retryDelay)
			if err != nil {
				return nil, err
			}
		}
	}

	e.tel.ReportWarning(
		report_executor_execute,
		fmt.Errorf("giving up after %d attempts", e.retries),
		c.APIURL,
	)
	return nil, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
