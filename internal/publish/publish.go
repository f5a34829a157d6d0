// Package publish forwards downloaded records to a NATS server as JSON
// messages, one message per record.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"ytcomments/internal/assert"
	"ytcomments/internal/telemetry"

	"github.com/nats-io/nats.go"
)

const (
	report_publisher_connection = "publisher.connection"
)

const subjectPrefix = "ytcomments"

type Publisher struct {
	nc  *nats.Conn
	tel telemetry.API
}

func Connect(url string, tel telemetry.API) (*Publisher, error) {
	assert.NotEmptyStr(url)
	assert.NotNil(tel)
	tel = telemetry.NewScopedAPI("publish", tel)

	opts := []nats.Option{
		nats.Name("ytcomments"),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(-1),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			tel.ReportWarning(report_publisher_connection, "reconnected", nc.ConnectedUrl())
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				tel.ReportWarning(report_publisher_connection, fmt.Errorf("disconnected: %w", err))
			}
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	tel.ReportDebug("nats connected", "url", url)

	return &Publisher{nc: nc, tel: tel}, nil
}

// Subject builds "ytcomments.<kind>.<target>", characters that carry meaning
// in a NATS subject are replaced inside target.
func Subject(kind, target string) string {
	replacer := strings.NewReplacer(
		".", "_",
		" ", "_",
		"*", "_",
		">", "_",
	)
	target = replacer.Replace(target)
	if target == "" {
		target = "_"
	}
	return fmt.Sprintf("%s.%s.%s", subjectPrefix, kind, target)
}

func (p *Publisher) Publish(ctx context.Context, subject string, record any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	err = p.nc.Publish(subject, data)
	if err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}
	return nil
}

// Flush blocks until the server has processed every published message.
func (p *Publisher) Flush(ctx context.Context) error {
	return p.nc.FlushWithContext(ctx)
}

func (p *Publisher) Close() error {
	err := p.nc.Drain()
	if err != nil {
		p.nc.Close()
		return err
	}
	return nil
}
