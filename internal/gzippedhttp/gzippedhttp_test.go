package gzippedhttp

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipString(t *testing.T, input string) []byte {
	t.Helper()

	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	_, err := gzipWriter.Write([]byte(input))
	require.NoError(t, err)
	require.NoError(t, gzipWriter.Close())

	return buf.Bytes()
}

func gunzip(t *testing.T, body []byte) string {
	t.Helper()

	reader, err := gzip.NewReader(bytes.NewReader(body))
	require.NoError(t, err)
	plain, err := io.ReadAll(reader)
	require.NoError(t, err)

	return string(plain)
}

func TestGzipResponse(t *testing.T) {
	testCases := []struct {
		name   string
		status int
	}{
		{name: "implicit 200", status: 0},
		{name: "unauthorized", status: http.StatusUnauthorized},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			handler := GzipResponse(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if testCase.status != 0 {
					w.WriteHeader(testCase.status)
				}
				_, _ = w.Write([]byte(`{"error":"nope"}`))
			}))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.Header.Set("Accept-Encoding", "gzip")
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, "gzip", recorder.Header().Get("Content-Encoding"))
			assert.Equal(t, `{"error":"nope"}`, gunzip(t, recorder.Body.Bytes()))
		})
	}
}

func TestGzipResponseSkippedWithoutAcceptEncoding(t *testing.T) {
	handler := GzipResponse(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("plain"))
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Empty(t, recorder.Header().Get("Content-Encoding"))
	assert.Equal(t, "plain", recorder.Body.String())
}

func TestUngzipRequest(t *testing.T) {
	var received string
	handler := UngzipRequest(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		received = string(body)
	}))

	request := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(gzipString(t, `{"email":"a@b.co"}`)))
	request.Header.Set("Content-Encoding", "gzip")
	handler.ServeHTTP(httptest.NewRecorder(), request)

	assert.Equal(t, `{"email":"a@b.co"}`, received)

	broken := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("not gzip")))
	broken.Header.Set("Content-Encoding", "gzip")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, broken)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
