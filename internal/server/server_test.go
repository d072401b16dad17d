package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shockbridge/shockbridge/internal/core/domain"
	"github.com/shockbridge/shockbridge/internal/util"
	"github.com/shockbridge/shockbridge/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type dispatch struct {
	source   string
	channels []domain.Channel
}

type fakeSink struct {
	mu         sync.Mutex
	vibrate    []int
	dispatches []dispatch
}

func (s *fakeSink) UpdateSlider(domain.Slider, int, string) {}

func (s *fakeSink) UpdateVibrate(intensity int, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vibrate = append(s.vibrate, intensity)
}

func (s *fakeSink) DispatchNow(source string, channels ...domain.Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatches = append(s.dispatches, dispatch{source, channels})
}

func (s *fakeSink) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.vibrate), len(s.dispatches)
}

func postJSON(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/command", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetToys(t *testing.T) {

	require := require.New(t)

	s := newServer(util.LoadTestConfig(), nil, nil, &fakeSink{}, zap.NewNop())
	rec := httptest.NewRecorder()
	s.RegisterRoutes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/GetToys", nil))

	require.Equal(http.StatusOK, rec.Code)
	var resp GetToysResponse
	require.NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal("ok", resp.Type)
	require.Equal(200, resp.Code)
	require.Len(resp.Data, 1)
	require.Equal(100, resp.Data[CONNECT_TOY_ID].Battery)
	require.Equal(1, resp.Data[CONNECT_TOY_ID].Status)
}

func TestCommandDebounce(t *testing.T) {

	assert := assert.New(t)

	sink := &fakeSink{}
	h := newServer(util.LoadTestConfig(), nil, nil, sink, zap.NewNop()).RegisterRoutes()

	rec := postJSON(t, h, `{"command":"Function","action":"Vibrate:20","toy":"SHOCKBRIDGE"}`)
	assert.Equal(http.StatusOK, rec.Code)
	assert.JSONEq(`{"type":"ok","code":200}`, rec.Body.String())

	postJSON(t, h, `{"action":"Vibrate:20"}`)
	assert.Equal([]int{100}, sink.vibrate, "a repeated level is debounced")
	assert.Equal([]dispatch{{CONNECT_ADAPTER_NAME, []domain.Channel{domain.ChannelVibrate}}}, sink.dispatches)

	postJSON(t, h, `{"action":"Vibrate:0"}`)
	assert.Equal([]int{100, 0}, sink.vibrate)
	assert.Len(sink.dispatches, 1, "zero is never dispatched")

	postJSON(t, h, `{"action":"Vibrate:0"}`)
	assert.Equal([]int{100, 0}, sink.vibrate)
}

func TestCommandAlwaysAcks(t *testing.T) {

	assert := assert.New(t)

	sink := &fakeSink{}
	h := newServer(util.LoadTestConfig(), nil, nil, sink, zap.NewNop()).RegisterRoutes()

	for _, body := range []string{`{not json`, `{}`, `{"action":"Rotate:3"}`, `{"action":"Vibrate:abc"}`} {
		rec := postJSON(t, h, body)
		assert.Equal(http.StatusOK, rec.Code, body)
		assert.JSONEq(`{"type":"ok","code":200}`, rec.Body.String(), body)
	}
	v, d := sink.counts()
	assert.Zero(v)
	assert.Zero(d)
}

func TestCommandForm(t *testing.T) {

	assert := assert.New(t)

	sink := &fakeSink{}
	h := newServer(util.LoadTestConfig(), nil, nil, sink, zap.NewNop()).RegisterRoutes()

	form := url.Values{"command": {"Function"}, "action": {"Vibrate:5"}}
	req := httptest.NewRequest(http.MethodPost, "/command", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(http.StatusOK, rec.Code)
	assert.Equal([]int{25}, sink.vibrate)
}

type healthActor struct {
	healthy bool
}

func (a *healthActor) Receive(ctx actor.Context) {
	if _, ok := ctx.Message().(domain.ActorHealthRequest); ok {
		ctx.Respond(domain.ActorHealthResponse{Id: domain.ACTOR_ID_MASTER, Healthy: a.healthy})
	}
}

func TestHealthCheck(t *testing.T) {

	assert := assert.New(t)

	as := actorutil.NewActorSystemWithZapLogger(zap.Must(zap.NewDevelopment()))
	defer as.Shutdown()

	for _, healthy := range []bool{true, false} {
		pid := as.Root.Spawn(actor.PropsFromProducer(func() actor.Actor { return &healthActor{healthy: healthy} }))
		h := newServer(util.LoadTestConfig(), as.Root, pid, &fakeSink{}, zap.NewNop()).RegisterRoutes()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
		if healthy {
			assert.Equal(http.StatusOK, rec.Code)
			assert.Equal("health_check: OK", rec.Body.String())
		} else {
			assert.Equal(http.StatusServiceUnavailable, rec.Code)
			assert.Equal("health_check: FAIL", rec.Body.String())
		}
		as.Root.Stop(pid)
	}
}

func TestMetricsEndpoint(t *testing.T) {

	h := newServer(util.LoadTestConfig(), nil, nil, &fakeSink{}, zap.NewNop()).RegisterRoutes()

	// make sure at least one shockbridge series exists
	postJSON(t, h, `{"action":"Vibrate:1"}`)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "shockbridge_adapter_messages_total")
}

func TestTCodeWebSocket(t *testing.T) {

	require := require.New(t)

	sink := &fakeSink{}
	adapter := NewTCodeAdapter(sink, zap.Must(zap.NewDevelopment()))
	srv := httptest.NewServer(adapter.RegisterRoutes(false))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(err)
	defer conn.Close()

	require.NoError(conn.WriteMessage(websocket.TextMessage, []byte("L0999")))
	require.NoError(conn.WriteMessage(websocket.TextMessage, []byte("R0500 V1200")))
	require.NoError(conn.WriteMessage(websocket.TextMessage, []byte("L0100I50 L0499I50")))

	require.Eventually(func() bool {
		v, d := sink.counts()
		return v == 2 && d == 2
	}, time.Second, 10*time.Millisecond)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	require.Equal([]int{100, 50}, sink.vibrate)
	require.Equal(dispatch{TCODE_ADAPTER_NAME, []domain.Channel{domain.ChannelVibrate}}, sink.dispatches[0])
}
