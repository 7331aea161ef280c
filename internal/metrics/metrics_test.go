package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sgferrors "sgfgrove/internal/errors"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{&sgferrors.SyntaxError{Msg: "x"}, "syntax"},
		{&sgferrors.NodeError{Err: &sgferrors.FormatError{FF: 5}}, "format"},
		{sgferrors.Typef("bad"), "type"},
		{fmt.Errorf("%w: x", sgferrors.ErrMalformedInput), "malformed"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Status(tt.err))
	}
}

func TestHandlerExposesInstruments(t *testing.T) {
	Observe(OpParse, time.Now(), nil)
	ObserveInput(128)
	SubscriberJoined()
	SubscriberLeft()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `sgfgrove_sgf_operations_total{op="parse",status="ok"}`)
	assert.Contains(t, body, "sgfgrove_sgf_input_bytes_bucket")
	assert.Contains(t, body, "sgfgrove_records_live_subscribers 0")
}
