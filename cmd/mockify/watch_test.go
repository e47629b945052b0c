package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iamtinsae/mockify/internal/events"
	"github.com/iamtinsae/mockify/internal/ui"
)

func TestSummarizeEvent(t *testing.T) {
	ui.SetColor(false)

	tests := []struct {
		topic string
		data  string
		want  string
	}{
		{events.TopicMockServed, `{"method":"GET","path":"/demo/users/","status":200,"duration_ns":1500000}`, "GET    /demo/users/ 200 1.5ms"},
		{events.TopicProjectCreated, `{"project":{"id":"prj-1","slug":"demo"}}`, "demo prj-1"},
		{events.TopicResourceCreated, `{"project_slug":"demo","resource":{"id":"res-1","name":"users"}}`, "demo/users res-1"},
		{events.TopicEndpointCreated, `{"endpoint":{"id":"ep-1","route":"/all","method":"POST"}}`, "POST   /all ep-1"},
		{events.TopicResourceDeleted, `{"resource_id":"res-1"}`, "res-1"},
		{events.TopicEndpointDeleted, `{"endpoint_id":"ep-1"}`, "ep-1"},
		{"mockify.unknown", `{"x":1}`, `{"x":1}`},
		{events.TopicMockServed, `not json`, "not json"},
	}
	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			if got := summarizeEvent(tt.topic, []byte(tt.data)); got != tt.want {
				t.Errorf("summarizeEvent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintEvent_JSON(t *testing.T) {
	jsonOutput = true
	defer func() { jsonOutput = false }()

	var buf bytes.Buffer
	printEvent(&buf, events.TopicResourceDeleted, []byte(`{"resource_id":"res-1"}`))
	want := `{"topic":"mockify.resource.deleted","data":{"resource_id":"res-1"}}`
	if strings.TrimSpace(buf.String()) != want {
		t.Errorf("printEvent = %s, want %s", buf.String(), want)
	}
}
