package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// StreamEvents connects to the admin event stream and calls fn for every
// event until ctx is cancelled, the server closes the stream, or fn returns
// an error. topics are NATS-style patterns; none means all events.
func (c *HTTPClient) StreamEvents(ctx context.Context, topics []string, fn func(Event) error) error {
	path := adminPrefix + "/events/stream"
	if len(topics) > 0 {
		path += "?" + url.Values{"topics": {strings.Join(topics, ",")}}.Encode()
	}
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return decodeAPIError(resp.StatusCode, body)
	}

	err = readEvents(bufio.NewScanner(resp.Body), fn)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// ErrStopStream can be returned by a StreamEvents callback to end the
// stream without error.
var ErrStopStream = errors.New("stop stream")

// readEvents parses text/event-stream frames. Comment lines are skipped and
// a blank line dispatches the frame.
func readEvents(sc *bufio.Scanner, fn func(Event) error) error {
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	var (
		evt  Event
		data strings.Builder
	)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == "":
			if data.Len() == 0 && evt.Topic == "" {
				continue
			}
			evt.Data = []byte(data.String())
			if err := fn(evt); err != nil {
				if errors.Is(err, ErrStopStream) {
					return nil
				}
				return err
			}
			evt = Event{}
			data.Reset()
		case strings.HasPrefix(line, ":"):
		default:
			field, value, _ := strings.Cut(line, ":")
			value = strings.TrimPrefix(value, " ")
			switch field {
			case "id":
				evt.ID = value
			case "event":
				evt.Topic = value
			case "data":
				if data.Len() > 0 {
					data.WriteByte('\n')
				}
				data.WriteString(value)
			}
		}
	}
	return sc.Err()
}
