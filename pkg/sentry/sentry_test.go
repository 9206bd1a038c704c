package sentry

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sentrygo "github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingTransport keeps events in memory instead of sending them.
type recordingTransport struct {
	events []*sentrygo.Event
}

func (r *recordingTransport) Configure(sentrygo.ClientOptions) {}
func (r *recordingTransport) SendEvent(e *sentrygo.Event)      { r.events = append(r.events, e) }
func (r *recordingTransport) Flush(time.Duration) bool         { return true }

func initRecording(t *testing.T, env, dsn string) *recordingTransport {
	t.Helper()
	t.Setenv("APP_ENV", env)
	t.Setenv("SENTRY_DSN", dsn)

	transport := new(recordingTransport)
	require.NoError(t, sentrygo.Init(sentrygo.ClientOptions{
		Dsn:       "https://public@sentry.example.com/1",
		Transport: transport,
	}))
	t.Cleanup(func() { sentrygo.CurrentHub().BindClient(nil) })
	return transport
}

func TestSentry_BuilderPattern(t *testing.T) {
	e := echo.New()
	ctx := e.NewContext(nil, nil)
	err := errors.New("boom")
	extras := map[string]interface{}{"key": "value"}
	tags := map[string]string{"env": "test"}
	contextValues := map[string]sentrygo.Context{"contact": {"id": 1}}

	s := new(Sentry)
	result := s.WithContext(ctx).
		WithError(err).
		WithMessage("message").
		WithLevel(sentrygo.LevelWarning).
		WithExtras(extras).
		WithTags(tags).
		WithContextValues(contextValues)

	assert.Same(t, s, result, "should return same instance for chaining")
	assert.Equal(t, ctx, s.context)
	assert.Equal(t, err, s.error)
	assert.Equal(t, "message", s.message)
	assert.Equal(t, sentrygo.LevelWarning, s.level)
	assert.Equal(t, extras, s.extras)
	assert.Equal(t, tags, s.tags)
	assert.Equal(t, contextValues, s.contextValues)
}

func TestSentry_ConvenienceConstructors(t *testing.T) {
	e := echo.New()
	ctx := e.NewContext(nil, nil)

	assert.Equal(t, ctx, WithContext(ctx).context)
	assert.Equal(t, map[string]interface{}{"a": 1}, WithExtras(map[string]interface{}{"a": 1}).extras)
	assert.Equal(t, map[string]string{"a": "b"}, WithTags(map[string]string{"a": "b"}).tags)
	assert.Len(t, WithContextValues(map[string]sentrygo.Context{"k": {}}).contextValues, 1)
}

func TestSentry_SendingBehavior(t *testing.T) {
	tests := []struct {
		name   string
		env    string
		dsn    string
		expect int
	}{
		{name: "skips local environment", env: "local", dsn: "https://public@sentry.example.com/1", expect: 0},
		{name: "skips empty dsn", env: "production", dsn: "", expect: 0},
		{name: "sends otherwise", env: "production", dsn: "https://public@sentry.example.com/1", expect: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := initRecording(t, tt.env, tt.dsn)

			Error(errors.New("store down"))
			Warningf("slow query: %dms", 1200)

			assert.Len(t, transport.events, tt.expect)
		})
	}
}

func TestSentry_EventContents(t *testing.T) {
	transport := initRecording(t, "production", "https://public@sentry.example.com/1")

	WithTags(map[string]string{"request_id": "abc"}).
		WithExtras(map[string]interface{}{"op": "create"}).
		Error(errors.New("insert failed"))
	Infof("contact %d created", 7)

	require.Len(t, transport.events, 2)
	errEvent := transport.events[0]
	assert.Equal(t, sentrygo.LevelError, errEvent.Level)
	assert.Equal(t, "abc", errEvent.Tags["request_id"])
	assert.Equal(t, "create", errEvent.Extra["op"])
	require.NotEmpty(t, errEvent.Exception)
	assert.Equal(t, "insert failed", errEvent.Exception[0].Value)

	msgEvent := transport.events[1]
	assert.Equal(t, sentrygo.LevelInfo, msgEvent.Level)
	assert.Equal(t, "contact 7 created", msgEvent.Message)
}

func TestSentry_LevelMethods(t *testing.T) {
	transport := initRecording(t, "production", "https://public@sentry.example.com/1")
	flushTime := FlushTime
	FlushTime = 0
	t.Cleanup(func() { FlushTime = flushTime })

	Debug("d")
	Debugf("%s", "d")
	Info("i")
	Warning("w")
	Errorf("e %d", 1)
	Fatal(errors.New("f"))
	Fatalf("f %d", 2)

	levels := make([]sentrygo.Level, 0, len(transport.events))
	for _, e := range transport.events {
		levels = append(levels, e.Level)
	}
	assert.Equal(t, []sentrygo.Level{
		sentrygo.LevelDebug, sentrygo.LevelDebug, sentrygo.LevelInfo, sentrygo.LevelWarning,
		sentrygo.LevelError, sentrygo.LevelFatal, sentrygo.LevelFatal,
	}, levels)
}

func TestSentry_SkipsNilError(t *testing.T) {
	transport := initRecording(t, "production", "https://public@sentry.example.com/1")

	new(Sentry).Error(nil)

	assert.Empty(t, transport.events)
}

func TestSentry_GetHub(t *testing.T) {
	t.Run("returns current hub when no context", func(t *testing.T) {
		assert.Same(t, sentrygo.CurrentHub(), new(Sentry).getHub())
	})

	t.Run("returns hub from echo context when available", func(t *testing.T) {
		e := echo.New()
		ctx := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		hub := sentrygo.CurrentHub().Clone()
		ctx.Set("sentry", hub)
		require.Same(t, hub, sentryecho.GetHubFromContext(ctx))

		assert.Same(t, hub, new(Sentry).WithContext(ctx).getHub())
	})
}

func TestSentry_RequestContext(t *testing.T) {
	transport := initRecording(t, "production", "https://public@sentry.example.com/1")
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/contacts", nil)

	WithContext(e.NewContext(req, httptest.NewRecorder())).
		WithTags(map[string]string{"env": "test"}).
		WithContextValues(map[string]sentrygo.Context{"contact": {"id": 3}}).
		Warning("email already in use")

	require.Len(t, transport.events, 1)
	event := transport.events[0]
	assert.Equal(t, sentrygo.LevelWarning, event.Level)
	assert.Equal(t, "test", event.Tags["env"])
	assert.Equal(t, 3, event.Contexts["contact"]["id"])
	require.NotNil(t, event.Request)
	assert.Equal(t, http.MethodPost, event.Request.Method)
}
