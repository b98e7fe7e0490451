package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atakanbattal/Kademe-KYS-sub003/aggregate"
	"github.com/atakanbattal/Kademe-KYS-sub003/engine"
	"github.com/atakanbattal/Kademe-KYS-sub003/history"
	kystest "github.com/atakanbattal/Kademe-KYS-sub003/internal/testing"
	"github.com/atakanbattal/Kademe-KYS-sub003/kpi"
	"github.com/atakanbattal/Kademe-KYS-sub003/quality"
	"github.com/atakanbattal/Kademe-KYS-sub003/recordstore"
)

const dofRecords = `[
	{"status":"closed","createdDate":"2024-01-05","closedDate":"2024-01-18","dueDate":"2024-01-20"},
	{"status":"open","createdDate":"2024-03-01","dueDate":"2024-02-20"}
]`

var refTime = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, cfg Config, opts engine.Options) (*Server, *engine.Engine, *recordstore.MemoryKV) {
	t.Helper()
	kv := recordstore.NewMemoryKV()
	require.NoError(t, kv.Set(context.Background(), "dofRecords", []byte(dofRecords)))
	opts.Store = kv
	if opts.Clock == nil {
		opts.Clock = func() time.Time { return refTime }
	}
	eng, err := engine.New(opts)
	require.NoError(t, err)
	t.Cleanup(func() { eng.Close() })
	return New(eng, cfg, zap.NewNop().Sugar()), eng, kv
}

func do(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleSummary(t *testing.T) {
	s, _, _ := newTestServer(t, Config{}, engine.Options{})

	rec := do(t, s, http.MethodGet, "/api/summary/dof")
	require.Equal(t, http.StatusOK, rec.Code)
	var got aggregate.CorrectiveActionSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, float64(50), got.ClosureRate)
	assert.Equal(t, float64(13), got.AverageClosureTime)

	rec = do(t, s, http.MethodGet, "/api/summary/ncr")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "hint")

	rec = do(t, s, http.MethodDelete, "/api/summary/dof")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleSummaries(t *testing.T) {
	s, _, _ := newTestServer(t, Config{}, engine.Options{})
	rec := do(t, s, http.MethodGet, "/api/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, len(quality.Domains))
	assert.Contains(t, got, "quality_cost")
}

func TestHandleInvalidate(t *testing.T) {
	s, _, kv := newTestServer(t, Config{}, engine.Options{})
	require.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/api/summary/dof").Code)

	require.NoError(t, kv.Set(context.Background(), "dofRecords", []byte(`[]`)))
	assert.Equal(t, http.StatusNoContent, do(t, s, http.MethodPost, "/api/summary/dof/invalidate").Code)

	var got aggregate.CorrectiveActionSummary
	require.NoError(t, json.Unmarshal(do(t, s, http.MethodGet, "/api/summary/dof").Body.Bytes(), &got))
	assert.Zero(t, got.Total)
}

func TestHandleResync_RateLimited(t *testing.T) {
	s, _, _ := newTestServer(t, Config{ResyncPerMinute: 1}, engine.Options{})

	rec := do(t, s, http.MethodPost, "/api/resync")
	require.Equal(t, http.StatusOK, rec.Code)
	var res engine.SyncResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 2, res.Domains[quality.DomainCorrectiveAction].Records)

	rec = do(t, s, http.MethodPost, "/api/resync")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	assert.Equal(t, http.StatusMethodNotAllowed, do(t, s, http.MethodGet, "/api/resync").Code)
}

func TestHandleDiagnostics(t *testing.T) {
	s, _, _ := newTestServer(t, Config{}, engine.Options{})
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/api/resync").Code)

	rec := do(t, s, http.MethodGet, "/api/diagnostics")
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Engine engine.Diagnostics `json:"engine"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(1), got.Engine.SyncCount)
	assert.Equal(t, 2, got.Engine.RecordCounts[quality.DomainCorrectiveAction])
}

func TestHandleKPI(t *testing.T) {
	s, _, _ := newTestServer(t, Config{}, engine.Options{})
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/kpi").Code)

	policy, err := kpi.Load("../kpi/testdata/targets.yaml")
	require.NoError(t, err)
	s, _, _ = newTestServer(t, Config{}, engine.Options{Policy: policy})
	rec := do(t, s, http.MethodGet, "/api/kpi")
	require.Equal(t, http.StatusOK, rec.Code)

	var results []kpi.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, len(policy.Targets))
	assert.Equal(t, "dof-closure", results[0].Target.ID)
	assert.Equal(t, aggregate.HealthCritical, results[0].Health)
}

func TestHandleHistory(t *testing.T) {
	s, _, _ := newTestServer(t, Config{}, engine.Options{})
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/history/dof").Code)

	store := history.NewStore(kystest.CreateTestDB(t))
	s, eng, _ := newTestServer(t, Config{}, engine.Options{History: store})
	_, err := eng.ForceResync(context.Background())
	require.NoError(t, err)

	rec := do(t, s, http.MethodGet, "/api/history/dof?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	var snaps []history.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snaps))
	require.Len(t, snaps, 1)
	assert.Equal(t, 2, snaps[0].Records)

	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/history/dof?since=yesterday").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/history/dof?limit=-1").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/history/all").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	s, _, _ := newTestServer(t, Config{Gatherer: reg}, engine.Options{Registerer: reg})
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/api/resync").Code)

	rec := do(t, s, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "kys_sync_passes_total 1")

	s, _, _ = newTestServer(t, Config{}, engine.Options{})
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/metrics").Code)
}

func TestCORS(t *testing.T) {
	s, _, _ := newTestServer(t, Config{AllowedOrigins: []string{"http://dashboard.local"}}, engine.Options{})

	req := httptest.NewRequest(http.MethodOptions, "/api/summary/dof", nil)
	req.Header.Set("Origin", "http://dashboard.local:3000")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://dashboard.local:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/summary/dof", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestOriginAllowed(t *testing.T) {
	assert.True(t, originAllowed("http://localhost:5173", nil))
	assert.False(t, originAllowed("http://example.com", nil))
	assert.True(t, originAllowed("https://kys.example.com", []string{"https://kys.example.com"}))
	assert.True(t, originAllowed("https://anything", []string{"*"}))
	assert.False(t, originAllowed("https://other.example.com", []string{"https://kys.example.com"}))
}

func readMessage(t *testing.T, conn *websocket.Conn) eventMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg eventMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestWebSocket_SummaryThenEvents(t *testing.T) {
	s, eng, _ := newTestServer(t, Config{}, engine.Options{})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?domain=dof"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	first := readMessage(t, conn)
	assert.Equal(t, "summary", first.Type)
	assert.Equal(t, quality.DomainCorrectiveAction, first.Domain)

	require.Eventually(t, func() bool { return s.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	_, err = eng.ForceResync(context.Background())
	require.NoError(t, err)

	ev := readMessage(t, conn)
	assert.Equal(t, "event", ev.Type)
	assert.Equal(t, quality.DomainCorrectiveAction, ev.Domain)
	assert.Equal(t, 2, ev.Records)

	require.NoError(t, conn.WriteJSON(clientMessage{Type: "bogus"}))
	assert.Equal(t, "error", readMessage(t, conn).Type)
}

func TestWebSocket_RejectsBadDomainAndOrigin(t *testing.T) {
	s, _, _ := newTestServer(t, Config{AllowedOrigins: []string{"http://dashboard.local"}}, engine.Options{})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	base := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	_, resp, err := websocket.DefaultDialer.Dial(base+"?domain=ncr", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err = websocket.DefaultDialer.Dial(base, header)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestServeStopsOnCancel(t *testing.T) {
	s, _, _ := newTestServer(t, Config{ShutdownTimeout: time.Second}, engine.Options{})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
