package record

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sgfgrove/internal/domain/record"
	sgferrors "sgfgrove/internal/errors"
	"sgfgrove/internal/httpresponse"
	recorduc "sgfgrove/internal/usecase/record"
	sgfuc "sgfgrove/internal/usecase/sgf"
)

type fakeStore struct {
	mu      sync.Mutex
	seq     int
	records map[string]record.Record
}

func (f *fakeStore) GenerateKey() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	return fmt.Sprintf("rec-%d", f.seq)
}

func (f *fakeStore) PutRecord(_ context.Context, rec record.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[rec.Key] = rec
	return nil
}

func (f *fakeStore) GetRecord(_ context.Context, key string) (record.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[key]
	if !ok {
		return record.Record{}, sgferrors.ErrRecordNotFound
	}
	return rec, nil
}

func (f *fakeStore) UpdateRecord(ctx context.Context, rec record.Record) error {
	return f.PutRecord(ctx, rec)
}

func (f *fakeStore) DeleteRecord(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[key]; !ok {
		return sgferrors.ErrRecordNotFound
	}
	delete(f.records, key)
	return nil
}

func (f *fakeStore) ListRecords(_ context.Context, _ int, pageNum int) (*record.ListResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	resp := &record.ListResponse{PageNum: pageNum, TotalPages: 1}
	for _, rec := range f.records {
		rec.SGF = ""
		resp.Records = append(resp.Records, rec)
	}
	return resp, nil
}

func (f *fakeStore) SaveSGFToCache(context.Context, string, string) error { return nil }

func (f *fakeStore) LoadSGFFromCache(context.Context, string) (string, bool, error) {
	return "", false, nil
}

func (f *fakeStore) WalkSgfFiles(string, func(string, int, []byte) error) error { return nil }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := zap.NewNop().Sugar()
	sgfUC := sgfuc.NewSgfUseCase(log, false)
	recordUC := recorduc.NewRecordUseCase(&fakeStore{records: map[string]record.Record{}}, sgfUC, log)

	r := chi.NewRouter()
	NewRecordHandler(log, recordUC, sgfUC).Register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

type envelope struct {
	Status int             `json:"Status"`
	Body   json.RawMessage `json:"Body"`
}

func call(t *testing.T, srv *httptest.Server, method, path, body string) (int, envelope) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, resp.StatusCode, env.Status)
	return resp.StatusCode, env
}

func importRecord(t *testing.T, srv *httptest.Server, text string) string {
	t.Helper()
	body, err := json.Marshal(record.ImportRequest{Name: "game", SGF: text})
	require.NoError(t, err)

	status, env := call(t, srv, http.MethodPost, "/records/", string(body))
	require.Equal(t, http.StatusCreated, status)
	var resp record.ImportResponse
	require.NoError(t, json.Unmarshal(env.Body, &resp))
	return resp.Key
}

func TestHandleParse(t *testing.T) {
	srv := newTestServer(t)

	status, env := call(t, srv, http.MethodPost, "/sgf/parse", `{"sgf":"(;FF[4]C[root];W[pd])"}`)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t,
		`{"collection":[{"nodes":[{"FF":4,"C":"root"},{"W":"pd"}],"children":null}]}`,
		string(env.Body))

	status, _ = call(t, srv, http.MethodPost, "/sgf/parse", `{"sgf":"(;FF[5])"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, srv, http.MethodPost, "/sgf/parse", `{"text":"(;FF[4])"}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHandleStringify(t *testing.T) {
	srv := newTestServer(t)

	status, env := call(t, srv, http.MethodPost, "/sgf/stringify",
		`[{"nodes":[{"FF":4,"C":"root"},{"W":"pd"}]}]`)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"sgf":"(;FF[4]C[root];W[pd])"}`, string(env.Body))

	status, _ = call(t, srv, http.MethodPost, "/sgf/stringify", `[]`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, srv, http.MethodPost, "/sgf/stringify", `{"nodes":[]}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHandleNormalize(t *testing.T) {
	srv := newTestServer(t)

	status, env := call(t, srv, http.MethodPost, "/sgf/normalize", `{"sgf":"(;C[x]FF[4](;B[aa]))"}`)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"sgf":"(;FF[4]C[x];B[aa])"}`, string(env.Body))
}

func TestRecordLifecycle(t *testing.T) {
	srv := newTestServer(t)
	key := importRecord(t, srv, "(;FF[4]GM[1]SZ[9]GN[test])")

	status, env := call(t, srv, http.MethodGet, "/records/"+key, "")
	require.Equal(t, http.StatusOK, status)
	var rec record.Record
	require.NoError(t, json.Unmarshal(env.Body, &rec))
	assert.Equal(t, "(;FF[4]GM[1]SZ[9]GN[test])", rec.SGF)

	status, env = call(t, srv, http.MethodGet, "/records/?page=1", "")
	require.Equal(t, http.StatusOK, status)
	var list record.ListResponse
	require.NoError(t, json.Unmarshal(env.Body, &list))
	assert.Len(t, list.Records, 1)

	status, _ = call(t, srv, http.MethodGet, "/records/?page=x", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = call(t, srv, http.MethodPost, "/records/"+key+"/moves", `{"color":"B","coordinates":"ee"}`)
	require.Equal(t, http.StatusOK, status)
	var move record.MoveResponse
	require.NoError(t, json.Unmarshal(env.Body, &move))
	assert.Equal(t, "(;FF[4]GM[1]SZ[9]GN[test];B[ee])", move.SGF)

	status, _ = call(t, srv, http.MethodPost, "/records/"+key+"/moves", `{"color":"B","coordinates":"dd"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, env = call(t, srv, http.MethodGet, "/records/"+key+"/info", "")
	require.Equal(t, http.StatusOK, status)
	var info record.Info
	require.NoError(t, json.Unmarshal(env.Body, &info))
	assert.Equal(t, 1, info.Moves)
	assert.Equal(t, "test", info.GameInfo["GN"])

	status, _ = call(t, srv, http.MethodDelete, "/records/"+key, "")
	assert.Equal(t, http.StatusOK, status)

	status, env = call(t, srv, http.MethodGet, "/records/"+key, "")
	assert.Equal(t, http.StatusNotFound, status)
	var errResp httpresponse.ErrorResponse
	require.NoError(t, json.Unmarshal(env.Body, &errResp))
	assert.Contains(t, errResp.ErrorDescription, "not found")
}

func TestImportRejectsSyntaxError(t *testing.T) {
	srv := newTestServer(t)
	status, _ := call(t, srv, http.MethodPost, "/records/", `{"name":"x","sgf":"(;B[aa]B[bb])"}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func dialLive(t *testing.T, srv *httptest.Server, key string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/records/" + key + "/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func TestHandleLive(t *testing.T) {
	srv := newTestServer(t)
	key := importRecord(t, srv, "(;FF[4])")

	first := dialLive(t, srv, key)
	var state record.MoveResponse
	require.NoError(t, first.ReadJSON(&state))
	assert.Equal(t, "(;FF[4])", state.SGF)

	second := dialLive(t, srv, key)
	require.NoError(t, second.ReadJSON(&state))

	// a move sent on one socket reaches every subscriber
	require.NoError(t, first.WriteJSON(record.Move{Color: "B", Coordinates: "aa"}))
	for _, conn := range []*websocket.Conn{first, second} {
		var got record.MoveResponse
		require.NoError(t, conn.ReadJSON(&got))
		assert.Equal(t, "(;FF[4];B[aa])", got.SGF)
		assert.Equal(t, "B", got.Move.Color)
	}

	// moves posted over HTTP are pushed too
	status, _ := call(t, srv, http.MethodPost, "/records/"+key+"/moves", `{"color":"W","coordinates":"bb"}`)
	require.Equal(t, http.StatusOK, status)
	var pushed record.MoveResponse
	require.NoError(t, second.ReadJSON(&pushed))
	assert.Equal(t, "(;FF[4];B[aa];W[bb])", pushed.SGF)

	// a rejected move is reported to the sender only
	require.NoError(t, second.WriteJSON(record.Move{Color: "W", Coordinates: "cc"}))
	var errResp httpresponse.ErrorResponse
	require.NoError(t, second.ReadJSON(&errResp))
	assert.Contains(t, errResp.ErrorDescription, "invalid move")
}

func TestHandleLiveUnknownRecord(t *testing.T) {
	srv := newTestServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/records/missing/live"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{sgferrors.ErrRecordNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: %w", sgferrors.ErrInvalidMove, sgferrors.Typef("x")), http.StatusUnprocessableEntity},
		{&sgferrors.SyntaxError{}, http.StatusBadRequest},
		{sgferrors.ErrEmptyTree, http.StatusBadRequest},
		{fmt.Errorf("%w: boom", sgferrors.ErrRecordImportFail), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err))
	}
}

func TestHubDropsClosedSubscribers(t *testing.T) {
	h := newHub(zap.NewNop().Sugar())
	upgraded := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		upgraded <- conn
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	serverSide := <-upgraded

	sub := h.join("k", serverSide)
	assert.Equal(t, 1, h.count("k"))

	_ = client.Close()
	_ = serverSide.Close()
	h.broadcast("k", record.MoveResponse{Key: "k"})
	assert.Equal(t, 0, h.count("k"))

	// leaving twice is harmless
	h.leave("k", sub)
	assert.Equal(t, 0, h.count("k"))
}
