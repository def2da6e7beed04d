package provider_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statusteacher/statusteacher/internal/provider"
	"github.com/statusteacher/statusteacher/internal/retry"
	"github.com/statusteacher/statusteacher/internal/retry/retrytest"
)

// fakeMessages records calls and answers with a fixed text.
type fakeMessages struct {
	calls atomic.Int32
	text  string
	last  sdk.MessageNewParams
}

func (f *fakeMessages) New(_ context.Context, body sdk.MessageNewParams, _ ...option.RequestOption) (*sdk.Message, error) {
	f.calls.Add(1)
	f.last = body
	var msg sdk.Message
	raw := `{"id":"msg_1","type":"message","role":"assistant","model":"claude-test",` +
		`"content":[{"type":"text","text":` + quote(f.text) + `}],` +
		`"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":1}}`
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func instantPolicy() (retry.Policy, *retrytest.Timer) {
	timer := retrytest.NewTimer()
	p := retry.DefaultPolicy()
	p.NewTimer = timer.Factory()
	return p, timer
}

// claudeServer emulates the Messages endpoint. statuses are returned in
// order for the first calls; afterwards the server answers with text.
func claudeServer(t *testing.T, text string, statuses ...int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(hits.Add(1))
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if n <= len(statuses) {
			w.WriteHeader(statuses[n-1])
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"try later"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-test",` +
			`"content":[{"type":"text","text":` + quote(text) + `}],` +
			`"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":1}}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newTestClaude(srv *httptest.Server, policy retry.Policy) *provider.Claude {
	return provider.NewClaude(provider.ClaudeOptions{
		APIKey:  "test-key",
		Model:   "claude-test",
		BaseURL: srv.URL + "/",
		Timeout: 5 * time.Second,
		Retry:   policy,
	})
}

func TestClaude_MissingKeyNeverCalls(t *testing.T) {
	srv, hits := claudeServer(t, teapotJSON)
	policy, _ := instantPolicy()

	c := provider.NewClaude(provider.ClaudeOptions{BaseURL: srv.URL + "/", Retry: policy})
	expl := c.Explain(context.Background(), 418)

	assert.True(t, expl.IsFallback())
	assert.Equal(t, 418, expl.Code)
	assert.Equal(t, int32(0), hits.Load())
}

func TestClaude_FencedSuccess(t *testing.T) {
	fake := &fakeMessages{text: "```json\n" + teapotJSON + "\n```"}
	policy, _ := instantPolicy()

	c := provider.NewClaudeWithClient(fake, provider.ClaudeOptions{Model: "claude-test", Retry: policy})
	expl := c.Explain(context.Background(), 418)

	assert.Equal(t, "I'm a teapot", expl.Name)
	assert.Equal(t, 418, expl.Code)
	assert.Equal(t, int32(1), fake.calls.Load())
	assert.Equal(t, sdk.Model("claude-test"), fake.last.Model)
	assert.Equal(t, int64(2048), fake.last.MaxTokens)
	require.Len(t, fake.last.System, 1)
	assert.Equal(t, provider.SystemPrompt, fake.last.System[0].Text)
}

func TestClaude_UnparseableFallsBack(t *testing.T) {
	fake := &fakeMessages{text: "I cannot help with that."}
	policy, _ := instantPolicy()

	c := provider.NewClaudeWithClient(fake, provider.ClaudeOptions{Retry: policy})
	expl := c.Explain(context.Background(), 500)

	assert.True(t, expl.IsFallback())
	assert.Equal(t, 500, expl.Code)
	assert.Equal(t, int32(1), fake.calls.Load(), "parse failures are not retried")
}

func TestClaude_RetriesTransientThenSucceeds(t *testing.T) {
	srv, hits := claudeServer(t, teapotJSON, http.StatusServiceUnavailable, http.StatusServiceUnavailable)
	policy, timer := instantPolicy()

	expl := newTestClaude(srv, policy).Explain(context.Background(), 418)

	assert.Equal(t, "I'm a teapot", expl.Name)
	assert.Equal(t, int32(3), hits.Load())
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, timer.Delays())
}

func TestClaude_OverloadedIsRetried(t *testing.T) {
	srv, hits := claudeServer(t, teapotJSON, 529)
	policy, _ := instantPolicy()

	expl := newTestClaude(srv, policy).Explain(context.Background(), 418)

	assert.False(t, expl.IsFallback())
	assert.Equal(t, int32(2), hits.Load())
}

func TestClaude_RateLimitedExhaustsBudget(t *testing.T) {
	srv, hits := claudeServer(t, teapotJSON, 429, 429, 429, 429)
	policy, timer := instantPolicy()

	expl := newTestClaude(srv, policy).Explain(context.Background(), 404)

	assert.True(t, expl.IsFallback())
	assert.Equal(t, 404, expl.Code)
	assert.Equal(t, int32(3), hits.Load())
	assert.Len(t, timer.Delays(), 2)
}

func TestClaude_ClientErrorIsPermanent(t *testing.T) {
	srv, hits := claudeServer(t, teapotJSON, http.StatusBadRequest)
	policy, timer := instantPolicy()

	expl := newTestClaude(srv, policy).Explain(context.Background(), 404)

	assert.True(t, expl.IsFallback())
	assert.Equal(t, int32(1), hits.Load())
	assert.Empty(t, timer.Delays())
}

func TestClaude_TransportErrorIsRetried(t *testing.T) {
	srv, _ := claudeServer(t, teapotJSON)
	url := srv.URL
	srv.Close()
	policy, timer := instantPolicy()

	c := provider.NewClaude(provider.ClaudeOptions{APIKey: "k", BaseURL: url + "/", Retry: policy})
	expl := c.Explain(context.Background(), 502)

	assert.True(t, expl.IsFallback())
	assert.Len(t, timer.Delays(), 2)
}
