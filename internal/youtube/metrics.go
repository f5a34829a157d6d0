package youtube

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("ytcomments/youtube")

type metrics struct {
	comments metric.Int64Counter
	posts    metric.Int64Counter
	requests metric.Int64Counter
	retries  metric.Int64Counter
}

func newMetrics() metrics {
	comments, _ := meter.Int64Counter(
		"comments_yielded",
		metric.WithDescription("Comments handed to the consumer."),
	)
	posts, _ := meter.Int64Counter(
		"posts_yielded",
		metric.WithDescription("Community posts handed to the consumer."),
	)
	requests, _ := meter.Int64Counter(
		"continuation_requests",
		metric.WithDescription("Continuation requests sent, retries included."),
	)
	retries, _ := meter.Int64Counter(
		"continuation_retries",
		metric.WithDescription("Continuation requests repeated after a timeout or unexpected status."),
	)
	return metrics{
		comments: comments,
		posts:    posts,
		requests: requests,
		retries:  retries,
	}
}
