package ws_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/formbus/pkg/ws"
)

type feedRecord struct {
	FormID   string `json:"form_id"`
	Elements int    `json:"elements"`
}

// dialFeed spins up a feed, its event loop, an HTTP server serving the
// upgrade endpoint, and one connected subscriber.
func dialFeed(t *testing.T) (*ws.Feed, *websocket.Conn) {
	t.Helper()

	feed := ws.NewFeed()
	go feed.Run()

	srv := httptest.NewServer(http.HandlerFunc(feed.Upgrade))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })

	return feed, conn
}

// readUntil publishes via publish until the subscriber receives a message.
// Registration races the first publish, so the record is re-sent until the
// read succeeds.
func readUntil(t *testing.T, conn *websocket.Conn, publish func()) []byte {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case <-done:
				return
			default:
				publish()
				time.Sleep(10 * time.Millisecond)
			}
		}
	}()

	require.NoError(t, conn.SetReadDeadline(deadline))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err, "subscriber never received a message")
	return msg
}

func TestFeedDeliversPublishedJSON(t *testing.T) {
	feed, conn := dialFeed(t)

	record := feedRecord{FormID: "user_form", Elements: 4}
	msg := readUntil(t, conn, func() { feed.PublishJSON(record) })

	var got feedRecord
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, record, got)
}

func TestFeedRawPublish(t *testing.T) {
	feed, conn := dialFeed(t)

	msg := readUntil(t, conn, func() { feed.Publish([]byte(`{"ok":true}`)) })
	assert.JSONEq(t, `{"ok":true}`, string(msg))
}

func TestPublishWithoutSubscribersDoesNotBlock(t *testing.T) {
	feed := ws.NewFeed() // Run never started, broadcast buffer only

	donech := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			feed.Publish([]byte("x"))
		}
		close(donech)
	}()

	select {
	case <-donech:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked with no running feed")
	}
}

func TestPublishJSONUnmarshalableValueIsDropped(t *testing.T) {
	feed, conn := dialFeed(t)

	// Channels cannot be marshalled; nothing may reach the subscriber.
	feed.PublishJSON(make(chan int))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "no message should have been delivered")
}
