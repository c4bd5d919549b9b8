package ipc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoParams struct {
	Text string `json:"text"`
}

func newTestServer(t *testing.T) (*Server, *Client) {
	t.Helper()

	s := NewServer()
	s.Register("echo", func(ctx context.Context, params json.RawMessage) (any, error) {
		var p echoParams
		if err := DecodeParams(params, &p); err != nil {
			return nil, err
		}
		return map[string]string{"text": p.Text}, nil
	})
	s.Register("fail", func(ctx context.Context, params json.RawMessage) (any, error) {
		return nil, errors.New("svcl is not installed")
	})
	s.Register("nothing", func(ctx context.Context, params json.RawMessage) (any, error) {
		return nil, nil
	})

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := Dial(ctx, srv.Listener.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	return s, c
}

func TestCallRoundTrip(t *testing.T) {
	_, c := newTestServer(t)
	ctx := context.Background()

	var out echoParams
	require.NoError(t, c.Call(ctx, "echo", echoParams{Text: "hello"}, &out))
	assert.Equal(t, "hello", out.Text)

	require.NoError(t, c.Call(ctx, "nothing", nil, nil))
}

func TestCallErrors(t *testing.T) {
	_, c := newTestServer(t)
	ctx := context.Background()

	err := c.Call(ctx, "missing.method", nil, nil)
	var ipcErr *Error
	require.ErrorAs(t, err, &ipcErr)
	assert.Equal(t, CodeMethodNotFound, ipcErr.Code)

	err = c.Call(ctx, "fail", nil, nil)
	require.ErrorAs(t, err, &ipcErr)
	assert.Equal(t, CodeInternal, ipcErr.Code)
	assert.Equal(t, "svcl is not installed", ipcErr.Message)

	err = c.Call(ctx, "echo", json.RawMessage(`"not an object"`), nil)
	require.ErrorAs(t, err, &ipcErr)
	assert.Equal(t, CodeInvalidParams, ipcErr.Code)
}

func TestNotifyReachesClients(t *testing.T) {
	s, c := newTestServer(t)

	// The connection is registered once a call has completed.
	require.NoError(t, c.Call(context.Background(), "nothing", nil, nil))
	require.Equal(t, 1, s.ClientCount())

	s.Notify("device.switched", map[string]string{"to": "{id}"})

	select {
	case ev := <-c.Events():
		assert.Equal(t, "device.switched", ev.Name)
		assert.JSONEq(t, `{"to":"{id}"}`, string(ev.Data))
	case <-time.After(5 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestCallAfterClose(t *testing.T) {
	_, c := newTestServer(t)
	require.NoError(t, c.Close())

	err := c.Call(context.Background(), "nothing", nil, nil)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestDispatchDirect(t *testing.T) {
	s := NewServer()
	s.Register("b", func(context.Context, json.RawMessage) (any, error) { return 1, nil })
	s.Register("a", func(context.Context, json.RawMessage) (any, error) { return nil, nil })

	assert.Equal(t, []string{"a", "b"}, s.methods())

	resp := s.Dispatch(context.Background(), Message{ID: "1", Method: "b"})
	assert.Equal(t, "1", resp.ID)
	assert.Nil(t, resp.Error)
	assert.JSONEq(t, "1", string(resp.Result))
}

func TestDispatchLogsFailuresWithLevel(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	s := NewServer()
	s.Register("fail", func(context.Context, json.RawMessage) (any, error) {
		return nil, errors.New("svcl is not installed")
	})

	resp := s.Dispatch(context.Background(), Message{ID: "1", Method: "fail"})
	require.NotNil(t, resp.Error)
	assert.Contains(t, buf.String(), "WARN [IPC] fail failed: svcl is not installed")
}

func TestListenTwiceFails(t *testing.T) {
	first := NewServer()
	require.NoError(t, first.Listen("127.0.0.1:0"))
	go first.Serve()
	t.Cleanup(func() { first.Shutdown(context.Background()) })

	second := NewServer()
	assert.Error(t, second.Listen(first.Addr()))
}

func TestIsLocalOrigin(t *testing.T) {
	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, Path, nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	assert.True(t, isLocalOrigin(req("")))
	assert.True(t, isLocalOrigin(req("http://localhost:3000")))
	assert.True(t, isLocalOrigin(req("http://127.0.0.1")))
	assert.False(t, isLocalOrigin(req("https://example.com")))
}
