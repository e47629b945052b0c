package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestReadEvents(t *testing.T) {
	input := strings.Join([]string{
		": keepalive",
		"",
		"id:1",
		"event:mockify.project.created",
		`data:{"project":{"slug":"demo"}}`,
		"",
		"id: 2",
		"event: mockify.mock.served",
		"data: line one",
		"data: line two",
		"",
	}, "\n")

	var got []Event
	err := readEvents(bufio.NewScanner(strings.NewReader(input)), func(e Event) error {
		got = append(got, e)
		return nil
	})
	if err != nil {
		t.Fatalf("readEvents: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2: %+v", len(got), got)
	}
	if got[0].ID != "1" || got[0].Topic != "mockify.project.created" || string(got[0].Data) != `{"project":{"slug":"demo"}}` {
		t.Errorf("event 0 = %+v", got[0])
	}
	if got[1].ID != "2" || string(got[1].Data) != "line one\nline two" {
		t.Errorf("event 1 = %+v", got[1])
	}
}

func TestReadEvents_CallbackError(t *testing.T) {
	input := "event:a\ndata:1\n\nevent:b\ndata:2\n\n"
	errBoom := errors.New("boom")

	calls := 0
	err := readEvents(bufio.NewScanner(strings.NewReader(input)), func(Event) error {
		calls++
		return errBoom
	})
	if !errors.Is(err, errBoom) || calls != 1 {
		t.Fatalf("err = %v, calls = %d", err, calls)
	}

	calls = 0
	err = readEvents(bufio.NewScanner(strings.NewReader(input)), func(Event) error {
		calls++
		return ErrStopStream
	})
	if err != nil || calls != 1 {
		t.Fatalf("stop: err = %v, calls = %d", err, calls)
	}
}

func TestHTTPClient_StreamEvents(t *testing.T) {
	var query, accept, auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("topics")
		accept = r.Header.Get("Accept")
		auth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "text/event-stream")
		for i := 1; i <= 3; i++ {
			fmt.Fprintf(w, "id:%d\nevent:mockify.mock.served\ndata:{\"n\":%d}\n\n", i, i)
		}
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "tok", "")
	var ids []string
	err := c.StreamEvents(context.Background(), []string{"mockify.mock.*", "mockify.project.>"}, func(e Event) error {
		ids = append(ids, e.ID)
		return nil
	})
	if err != nil {
		t.Fatalf("StreamEvents: %v", err)
	}
	if strings.Join(ids, ",") != "1,2,3" {
		t.Errorf("ids = %v", ids)
	}
	if query != "mockify.mock.*,mockify.project.>" || accept != "text/event-stream" || auth != "Bearer tok" {
		t.Errorf("query = %q, accept = %q, auth = %q", query, accept, auth)
	}
}

func TestHTTPClient_StreamEvents_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"missing authorization header"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "", "")
	err := c.StreamEvents(context.Background(), nil, func(Event) error { return nil })

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("err = %v", err)
	}
}
