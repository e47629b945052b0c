package events

import (
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
)

// startTestNATS starts an embedded NATS server and returns its client URL.
func startTestNATS(t *testing.T) string {
	t.Helper()
	opts := &natsserver.Options{Host: "127.0.0.1", Port: -1}
	srv, err := natsserver.NewServer(opts)
	if err != nil {
		t.Fatalf("starting embedded NATS: %v", err)
	}
	srv.Start()
	t.Cleanup(srv.Shutdown)
	if !srv.ReadyForConnections(5 * time.Second) {
		t.Fatal("embedded NATS not ready")
	}
	return srv.ClientURL()
}

func newPair(t *testing.T) (*NATSPublisher, *NATSSubscriber) {
	t.Helper()
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	t.Cleanup(func() { pub.Close() })

	sub, err := NewNATSSubscriber(url)
	if err != nil {
		t.Fatalf("creating subscriber: %v", err)
	}
	t.Cleanup(func() { sub.Close() })
	return pub, sub
}

func TestNATSSubscriber_ImplementsSubscriber(t *testing.T) {
	var _ Subscriber = (*NATSSubscriber)(nil)
}

func TestNATSSubscriber_ReceivesTopicAndData(t *testing.T) {
	pub, sub := newPair(t)

	ch, cancel, err := sub.Subscribe(TopicAll)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer cancel()

	if err := pub.conn.Publish(TopicEndpointCreated, []byte(`{"id":"1"}`)); err != nil {
		t.Fatalf("publishing: %v", err)
	}
	pub.conn.Flush()

	select {
	case msg := <-ch:
		if msg.Topic != TopicEndpointCreated {
			t.Errorf("topic = %q, want %q", msg.Topic, TopicEndpointCreated)
		}
		if string(msg.Data) != `{"id":"1"}` {
			t.Errorf("data = %q", msg.Data)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestNATSSubscriber_ExactTopicFilters(t *testing.T) {
	pub, sub := newPair(t)

	ch, cancel, err := sub.Subscribe(TopicMockServed)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer cancel()

	_ = pub.conn.Publish(TopicProjectCreated, []byte(`{}`))
	_ = pub.conn.Publish(TopicMockServed, []byte(`{"status":200}`))
	pub.conn.Flush()

	select {
	case msg := <-ch:
		if msg.Topic != TopicMockServed {
			t.Errorf("received unrelated topic %q", msg.Topic)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestNATSSubscriber_Cancel(t *testing.T) {
	_, sub := newPair(t)

	ch, cancel, err := sub.Subscribe(TopicAll)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}

	cancel()
	cancel()

	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed after cancel")
	}
}

func TestNATSSubscriber_CancelDuringMessages(t *testing.T) {
	pub, sub := newPair(t)

	ch, cancel, err := sub.Subscribe(TopicAll)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			_ = pub.conn.Publish(TopicMockServed, []byte(`{}`))
		}
		pub.conn.Flush()
	}()

	cancel()
	<-done

	for range ch {
	}
}
