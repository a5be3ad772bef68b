package apiconnect

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/pagetally/pkg/api"
)

type stubHistory struct{}

func (stubHistory) ListHistory(context.Context, *connect.Request[api.ListHistoryRequest]) (*connect.Response[api.ListHistoryResponse], error) {
	return connect.NewResponse(&api.ListHistoryResponse{}), nil
}

func (stubHistory) DeleteBatch(context.Context, *connect.Request[api.DeleteBatchRequest]) (*connect.Response[api.DeleteBatchResponse], error) {
	return connect.NewResponse(&api.DeleteBatchResponse{}), nil
}

func TestRequestCodec(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"application/json", "json"},
		{"application/json; charset=utf-8", "json"},
		{"application/proto", "proto"},
		{"application/grpc", "proto"},
		{"application/grpc+json", "json"},
		{"application/grpc-web", "proto"},
		{"application/grpc-web+proto", "proto"},
		{"application/connect+json", "json"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, HistoryServiceListHistoryProcedure, nil)
			r.Header.Set("Content-Type", tt.contentType)
			if got := requestCodec(r); got != tt.want {
				t.Errorf("requestCodec(%q) = %q, want %q", tt.contentType, got, tt.want)
			}
		})
	}
}

func TestHandler_RejectsNonJSONCodecs(t *testing.T) {
	_, handler := NewHistoryServiceHandler(stubHistory{})

	t.Run("proto", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, HistoryServiceListHistoryProcedure, strings.NewReader(""))
		r.Header.Set("Content-Type", "application/proto")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		if w.Code != http.StatusUnsupportedMediaType {
			t.Errorf("status: expected 415, got %d", w.Code)
		}
	})

	t.Run("json", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, HistoryServiceListHistoryProcedure, strings.NewReader("{}"))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Errorf("status: expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestClient_RoundTrip(t *testing.T) {
	path, handler := NewHistoryServiceHandler(stubHistory{})
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewHistoryServiceClient(http.DefaultClient, server.URL)
	if _, err := client.ListHistory(context.Background(), connect.NewRequest(&api.ListHistoryRequest{})); err != nil {
		t.Fatalf("ListHistory failed: %v", err)
	}
}
