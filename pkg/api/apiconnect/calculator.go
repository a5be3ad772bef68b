package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/pagetally/pkg/api"
)

// CalculatorServiceName is the fully-qualified name of the CalculatorService service.
const CalculatorServiceName = "pagetally.v1.CalculatorService"

// Procedure paths, used for routing and in interceptors.
const (
	CalculatorServiceGetDraftProcedure = "/pagetally.v1.CalculatorService/GetDraft"
	CalculatorServiceAddManualDocumentProcedure = "/pagetally.v1.CalculatorService/AddManualDocument"
	CalculatorServiceUpdatePageCountProcedure = "/pagetally.v1.CalculatorService/UpdatePageCount"
	CalculatorServiceRemoveDocumentProcedure = "/pagetally.v1.CalculatorService/RemoveDocument"
	CalculatorServiceClearDocumentsProcedure = "/pagetally.v1.CalculatorService/ClearDocuments"
	CalculatorServiceSetPricePerPageProcedure = "/pagetally.v1.CalculatorService/SetPricePerPage"
	CalculatorServiceSaveBatchProcedure = "/pagetally.v1.CalculatorService/SaveBatch"
	CalculatorServiceLoadBatchProcedure = "/pagetally.v1.CalculatorService/LoadBatch"
)

// CalculatorServiceClient is a client for the pagetally.v1.CalculatorService service.
type CalculatorServiceClient interface {
	GetDraft(context.Context, *connect.Request[api.GetDraftRequest]) (*connect.Response[api.DraftResponse], error)
	AddManualDocument(context.Context, *connect.Request[api.AddManualDocumentRequest]) (*connect.Response[api.DraftResponse], error)
	UpdatePageCount(context.Context, *connect.Request[api.UpdatePageCountRequest]) (*connect.Response[api.DraftResponse], error)
	RemoveDocument(context.Context, *connect.Request[api.RemoveDocumentRequest]) (*connect.Response[api.DraftResponse], error)
	ClearDocuments(context.Context, *connect.Request[api.ClearDocumentsRequest]) (*connect.Response[api.DraftResponse], error)
	SetPricePerPage(context.Context, *connect.Request[api.SetPricePerPageRequest]) (*connect.Response[api.DraftResponse], error)
	SaveBatch(context.Context, *connect.Request[api.SaveBatchRequest]) (*connect.Response[api.SaveBatchResponse], error)
	LoadBatch(context.Context, *connect.Request[api.LoadBatchRequest]) (*connect.Response[api.DraftResponse], error)
}

// NewCalculatorServiceClient constructs a client for the pagetally.v1.CalculatorService service.
// baseURL is the server root, for example http://localhost:8080.
func NewCalculatorServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) CalculatorServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &calculatorServiceClient{
		getDraft: connect.NewClient[api.GetDraftRequest, api.DraftResponse](httpClient, baseURL+CalculatorServiceGetDraftProcedure, opts...),
		addManualDocument: connect.NewClient[api.AddManualDocumentRequest, api.DraftResponse](httpClient, baseURL+CalculatorServiceAddManualDocumentProcedure, opts...),
		updatePageCount: connect.NewClient[api.UpdatePageCountRequest, api.DraftResponse](httpClient, baseURL+CalculatorServiceUpdatePageCountProcedure, opts...),
		removeDocument: connect.NewClient[api.RemoveDocumentRequest, api.DraftResponse](httpClient, baseURL+CalculatorServiceRemoveDocumentProcedure, opts...),
		clearDocuments: connect.NewClient[api.ClearDocumentsRequest, api.DraftResponse](httpClient, baseURL+CalculatorServiceClearDocumentsProcedure, opts...),
		setPricePerPage: connect.NewClient[api.SetPricePerPageRequest, api.DraftResponse](httpClient, baseURL+CalculatorServiceSetPricePerPageProcedure, opts...),
		saveBatch: connect.NewClient[api.SaveBatchRequest, api.SaveBatchResponse](httpClient, baseURL+CalculatorServiceSaveBatchProcedure, opts...),
		loadBatch: connect.NewClient[api.LoadBatchRequest, api.DraftResponse](httpClient, baseURL+CalculatorServiceLoadBatchProcedure, opts...),
	}
}

type calculatorServiceClient struct {
	getDraft *connect.Client[api.GetDraftRequest, api.DraftResponse]
	addManualDocument *connect.Client[api.AddManualDocumentRequest, api.DraftResponse]
	updatePageCount *connect.Client[api.UpdatePageCountRequest, api.DraftResponse]
	removeDocument *connect.Client[api.RemoveDocumentRequest, api.DraftResponse]
	clearDocuments *connect.Client[api.ClearDocumentsRequest, api.DraftResponse]
	setPricePerPage *connect.Client[api.SetPricePerPageRequest, api.DraftResponse]
	saveBatch *connect.Client[api.SaveBatchRequest, api.SaveBatchResponse]
	loadBatch *connect.Client[api.LoadBatchRequest, api.DraftResponse]
}

func (c *calculatorServiceClient) GetDraft(ctx context.Context, req *connect.Request[api.GetDraftRequest]) (*connect.Response[api.DraftResponse], error) {
	return c.getDraft.CallUnary(ctx, req)
}

func (c *calculatorServiceClient) AddManualDocument(ctx context.Context, req *connect.Request[api.AddManualDocumentRequest]) (*connect.Response[api.DraftResponse], error) {
	return c.addManualDocument.CallUnary(ctx, req)
}

func (c *calculatorServiceClient) UpdatePageCount(ctx context.Context, req *connect.Request[api.UpdatePageCountRequest]) (*connect.Response[api.DraftResponse], error) {
	return c.updatePageCount.CallUnary(ctx, req)
}

func (c *calculatorServiceClient) RemoveDocument(ctx context.Context, req *connect.Request[api.RemoveDocumentRequest]) (*connect.Response[api.DraftResponse], error) {
	return c.removeDocument.CallUnary(ctx, req)
}

func (c *calculatorServiceClient) ClearDocuments(ctx context.Context, req *connect.Request[api.ClearDocumentsRequest]) (*connect.Response[api.DraftResponse], error) {
	return c.clearDocuments.CallUnary(ctx, req)
}

func (c *calculatorServiceClient) SetPricePerPage(ctx context.Context, req *connect.Request[api.SetPricePerPageRequest]) (*connect.Response[api.DraftResponse], error) {
	return c.setPricePerPage.CallUnary(ctx, req)
}

func (c *calculatorServiceClient) SaveBatch(ctx context.Context, req *connect.Request[api.SaveBatchRequest]) (*connect.Response[api.SaveBatchResponse], error) {
	return c.saveBatch.CallUnary(ctx, req)
}

func (c *calculatorServiceClient) LoadBatch(ctx context.Context, req *connect.Request[api.LoadBatchRequest]) (*connect.Response[api.DraftResponse], error) {
	return c.loadBatch.CallUnary(ctx, req)
}

// CalculatorServiceHandler is implemented by the server side of pagetally.v1.CalculatorService.
type CalculatorServiceHandler interface {
	GetDraft(context.Context, *connect.Request[api.GetDraftRequest]) (*connect.Response[api.DraftResponse], error)
	AddManualDocument(context.Context, *connect.Request[api.AddManualDocumentRequest]) (*connect.Response[api.DraftResponse], error)
	UpdatePageCount(context.Context, *connect.Request[api.UpdatePageCountRequest]) (*connect.Response[api.DraftResponse], error)
	RemoveDocument(context.Context, *connect.Request[api.RemoveDocumentRequest]) (*connect.Response[api.DraftResponse], error)
	ClearDocuments(context.Context, *connect.Request[api.ClearDocumentsRequest]) (*connect.Response[api.DraftResponse], error)
	SetPricePerPage(context.Context, *connect.Request[api.SetPricePerPageRequest]) (*connect.Response[api.DraftResponse], error)
	SaveBatch(context.Context, *connect.Request[api.SaveBatchRequest]) (*connect.Response[api.SaveBatchResponse], error)
	LoadBatch(context.Context, *connect.Request[api.LoadBatchRequest]) (*connect.Response[api.DraftResponse], error)
}

// NewCalculatorServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewCalculatorServiceHandler(svc CalculatorServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	getDraftHandler := connect.NewUnaryHandler(CalculatorServiceGetDraftProcedure, svc.GetDraft, opts...)
	addManualDocumentHandler := connect.NewUnaryHandler(CalculatorServiceAddManualDocumentProcedure, svc.AddManualDocument, opts...)
	updatePageCountHandler := connect.NewUnaryHandler(CalculatorServiceUpdatePageCountProcedure, svc.UpdatePageCount, opts...)
	removeDocumentHandler := connect.NewUnaryHandler(CalculatorServiceRemoveDocumentProcedure, svc.RemoveDocument, opts...)
	clearDocumentsHandler := connect.NewUnaryHandler(CalculatorServiceClearDocumentsProcedure, svc.ClearDocuments, opts...)
	setPricePerPageHandler := connect.NewUnaryHandler(CalculatorServiceSetPricePerPageProcedure, svc.SetPricePerPage, opts...)
	saveBatchHandler := connect.NewUnaryHandler(CalculatorServiceSaveBatchProcedure, svc.SaveBatch, opts...)
	loadBatchHandler := connect.NewUnaryHandler(CalculatorServiceLoadBatchProcedure, svc.LoadBatch, opts...)
	return "/pagetally.v1.CalculatorService/", jsonOnly(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case CalculatorServiceGetDraftProcedure:
			getDraftHandler.ServeHTTP(w, r)
		case CalculatorServiceAddManualDocumentProcedure:
			addManualDocumentHandler.ServeHTTP(w, r)
		case CalculatorServiceUpdatePageCountProcedure:
			updatePageCountHandler.ServeHTTP(w, r)
		case CalculatorServiceRemoveDocumentProcedure:
			removeDocumentHandler.ServeHTTP(w, r)
		case CalculatorServiceClearDocumentsProcedure:
			clearDocumentsHandler.ServeHTTP(w, r)
		case CalculatorServiceSetPricePerPageProcedure:
			setPricePerPageHandler.ServeHTTP(w, r)
		case CalculatorServiceSaveBatchProcedure:
			saveBatchHandler.ServeHTTP(w, r)
		case CalculatorServiceLoadBatchProcedure:
			loadBatchHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
