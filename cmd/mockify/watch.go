package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/iamtinsae/mockify/internal/client"
	"github.com/iamtinsae/mockify/internal/events"
	"github.com/iamtinsae/mockify/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream definition changes and served mocks",
	Long: `Stream definition changes and served mocks.

Events come from NATS when a NATS URL is configured (--nats, MOCKIFY_NATS_URL
or the active remote) and from the server's event stream otherwise.`,
	GroupID: "mocks",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		natsURL, _ := cmd.Flags().GetString("nats")
		if natsURL == "" {
			natsURL = os.Getenv("MOCKIFY_NATS_URL")
		}
		if natsURL == "" {
			natsURL = activeRemoteNATSURL()
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if natsURL != "" {
			return watchNATS(ctx, natsURL, topic)
		}
		return mockifyClient.StreamEvents(ctx, []string{topic}, func(e client.Event) error {
			printEvent(os.Stdout, e.Topic, e.Data)
			return nil
		})
	},
}

func watchNATS(ctx context.Context, natsURL, topic string) error {
	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats disconnected", "err", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			slog.Info("nats reconnected")
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe(topic)
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			printEvent(os.Stdout, msg.Topic, msg.Data)
		}
	}
}

// printEvent writes one line per event. JSON output passes the payload
// through unchanged.
func printEvent(w io.Writer, topic string, data []byte) {
	if jsonOutput {
		fmt.Fprintf(w, "{\"topic\":%q,\"data\":%s}\n", topic, data)
		return
	}
	ts := ui.RenderMuted(time.Now().Format("15:04:05"))
	fmt.Fprintf(w, "%s %-26s %s\n", ts, topic, summarizeEvent(topic, data))
}

// summarizeEvent renders the interesting part of a known event payload.
func summarizeEvent(topic string, data []byte) string {
	switch topic {
	case events.TopicMockServed:
		var e events.MockServed
		if json.Unmarshal(data, &e) == nil {
			return fmt.Sprintf("%s %s %s %s", ui.RenderMethod(e.Method), e.Path, ui.RenderStatus(e.Status), e.Duration)
		}
	case events.TopicProjectCreated:
		var e events.ProjectCreated
		if json.Unmarshal(data, &e) == nil && e.Project != nil {
			return e.Project.Slug + " " + ui.RenderMuted(e.Project.ID)
		}
	case events.TopicResourceCreated:
		var e events.ResourceCreated
		if json.Unmarshal(data, &e) == nil && e.Resource != nil {
			return e.ProjectSlug + "/" + e.Resource.Name + " " + ui.RenderMuted(e.Resource.ID)
		}
	case events.TopicEndpointCreated:
		var e events.EndpointCreated
		if json.Unmarshal(data, &e) == nil && e.Endpoint != nil {
			return fmt.Sprintf("%s %s %s", ui.RenderMethod(string(e.Endpoint.Method)), e.Endpoint.Route, ui.RenderMuted(e.Endpoint.ID))
		}
	case events.TopicResourceDeleted:
		var e events.ResourceDeleted
		if json.Unmarshal(data, &e) == nil {
			return e.ResourceID
		}
	case events.TopicEndpointDeleted:
		var e events.EndpointDeleted
		if json.Unmarshal(data, &e) == nil {
			return e.EndpointID
		}
	}
	return string(data)
}

func init() {
	watchCmd.Flags().String("topic", events.TopicAll, "topic pattern to watch (NATS wildcards)")
	watchCmd.Flags().String("nats", "", "NATS URL to subscribe to instead of the HTTP event stream")
}
