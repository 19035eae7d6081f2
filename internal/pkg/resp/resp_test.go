package resp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rubiechat/internal/pkg/errs"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRespondSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondSuccess(rec, httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	body := decode(t, rec)
	assert.Equal(t, float64(0), body["code"])
	assert.Equal(t, "success", body["message"])
	assert.Equal(t, map[string]any{"status": "ok"}, body["data"])
}

func TestRespondStatusOmitsNilData(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondStatus(rec, httptest.NewRequest(http.MethodPost, "/", nil), http.StatusCreated, nil)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, decode(t, rec), "data")
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errs.NewError(errs.ErrEmailTaken))

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(errs.ErrEmailTaken), body["code"])
	assert.Equal(t, "An account with this email already exists.", body["message"])
}

func TestRespondErrorNil(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, float64(errs.ErrUnknown), decode(t, rec)["code"])
}

func TestRespondJSONEncodingFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, map[string]any{"bad": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
