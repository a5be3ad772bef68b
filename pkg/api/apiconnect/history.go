package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/pagetally/pkg/api"
)

// HistoryServiceName is the fully-qualified name of the HistoryService service.
const HistoryServiceName = "pagetally.v1.HistoryService"

// Procedure paths, used for routing and in interceptors.
const (
	HistoryServiceListHistoryProcedure = "/pagetally.v1.HistoryService/ListHistory"
	HistoryServiceDeleteBatchProcedure = "/pagetally.v1.HistoryService/DeleteBatch"
)

// HistoryServiceClient is a client for the pagetally.v1.HistoryService service.
type HistoryServiceClient interface {
	ListHistory(context.Context, *connect.Request[api.ListHistoryRequest]) (*connect.Response[api.ListHistoryResponse], error)
	DeleteBatch(context.Context, *connect.Request[api.DeleteBatchRequest]) (*connect.Response[api.DeleteBatchResponse], error)
}

// NewHistoryServiceClient constructs a client for the pagetally.v1.HistoryService service.
// baseURL is the server root, for example http://localhost:8080.
func NewHistoryServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) HistoryServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &historyServiceClient{
		listHistory: connect.NewClient[api.ListHistoryRequest, api.ListHistoryResponse](httpClient, baseURL+HistoryServiceListHistoryProcedure, opts...),
		deleteBatch: connect.NewClient[api.DeleteBatchRequest, api.DeleteBatchResponse](httpClient, baseURL+HistoryServiceDeleteBatchProcedure, opts...),
	}
}

type historyServiceClient struct {
	listHistory *connect.Client[api.ListHistoryRequest, api.ListHistoryResponse]
	deleteBatch *connect.Client[api.DeleteBatchRequest, api.DeleteBatchResponse]
}

func (c *historyServiceClient) ListHistory(ctx context.Context, req *connect.Request[api.ListHistoryRequest]) (*connect.Response[api.ListHistoryResponse], error) {
	return c.listHistory.CallUnary(ctx, req)
}

func (c *historyServiceClient) DeleteBatch(ctx context.Context, req *connect.Request[api.DeleteBatchRequest]) (*connect.Response[api.DeleteBatchResponse], error) {
	return c.deleteBatch.CallUnary(ctx, req)
}

// HistoryServiceHandler is implemented by the server side of pagetally.v1.HistoryService.
type HistoryServiceHandler interface {
	ListHistory(context.Context, *connect.Request[api.ListHistoryRequest]) (*connect.Response[api.ListHistoryResponse], error)
	DeleteBatch(context.Context, *connect.Request[api.DeleteBatchRequest]) (*connect.Response[api.DeleteBatchResponse], error)
}

// NewHistoryServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewHistoryServiceHandler(svc HistoryServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	listHistoryHandler := connect.NewUnaryHandler(HistoryServiceListHistoryProcedure, svc.ListHistory, opts...)
	deleteBatchHandler := connect.NewUnaryHandler(HistoryServiceDeleteBatchProcedure, svc.DeleteBatch, opts...)
	return "/pagetally.v1.HistoryService/", jsonOnly(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case HistoryServiceListHistoryProcedure:
			listHistoryHandler.ServeHTTP(w, r)
		case HistoryServiceDeleteBatchProcedure:
			deleteBatchHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
