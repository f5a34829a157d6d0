//go:build e2e

package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"testing"
	"time"
	"ytcomments/internal/telemetry"
	"ytcomments/internal/youtube"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setup(t testing.TB) (string, func()) {
	// suppress logging
	testcontainers.Logger = log.New(io.Discard, "", 0)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		Started: true,
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "nats:2.10",
			ExposedPorts: []string{"4222/tcp"},
			WaitingFor:   wait.ForLog("Server is ready"),
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	port, err := container.MappedPort(ctx, "4222/tcp")
	if err != nil {
		t.Fatal(err)
	}

	return fmt.Sprintf("nats://%s:%s", host, port.Port()), func() {
		err := container.Terminate(context.Background())
		if err != nil {
			t.Fatal(err)
		}
	}
}

func TestPublishComments(t *testing.T) {
	url, cleanup := setup(t)
	defer cleanup()

	tel := &telemetry.Recorder{}
	publisher, err := Connect(url, tel)
	require.NoError(t, err)
	defer publisher.Close()

	subscriber, err := nats.Connect(url)
	require.NoError(t, err)
	defer subscriber.Close()

	subject := Subject("comments", "dQw4w9WgXcQ")
	messages := make(chan *nats.Msg, 8)
	sub, err := subscriber.ChanSubscribe(subject, messages)
	require.NoError(t, err)
	defer sub.Unsubscribe()
	require.NoError(t, subscriber.Flush())

	ctx := context.Background()
	sent := []youtube.Comment{
		{CID: "a", Text: "first", Votes: "1", Replies: json.RawMessage(`"0"`)},
		{CID: "b", Text: "second", Votes: "0", Replies: json.RawMessage(`""`), Reply: true},
	}
	for _, c := range sent {
		require.NoError(t, publisher.Publish(ctx, subject, c))
	}
	require.NoError(t, publisher.Flush(ctx))

	for _, expected := range sent {
		select {
		case msg := <-messages:
			var got youtube.Comment
			require.NoError(t, json.Unmarshal(msg.Data, &got))
			require.Equal(t, expected.CID, got.CID)
			require.Equal(t, expected.Text, got.Text)
			require.Equal(t, expected.Reply, got.Reply)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for message")
		}
	}
}
