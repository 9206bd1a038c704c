package httpserver_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"contactbook/pkg/config"

	"github.com/stretchr/testify/require"
)

// apiResponse mirrors httpserver.APIResponse with a raw result.
type apiResponse struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Field   string          `json:"field"`
	Result  json.RawMessage `json:"result"`
}

func testConfig() *config.Config {
	return &config.Config{}
}

func decodeAPIResponse(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), "body: %s", rec.Body.String())
	return resp
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), "body: %s", rec.Body.String())
}
