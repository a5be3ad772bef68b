package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/pagetally/pkg/api"
)

// PaymentServiceName is the fully-qualified name of the PaymentService service.
const PaymentServiceName = "pagetally.v1.PaymentService"

// Procedure paths, used for routing and in interceptors.
const (
	PaymentServiceListSharesProcedure = "/pagetally.v1.PaymentService/ListShares"
	PaymentServiceAddPayerProcedure = "/pagetally.v1.PaymentService/AddPayer"
	PaymentServiceRemovePayerProcedure = "/pagetally.v1.PaymentService/RemovePayer"
	PaymentServiceTogglePaidProcedure = "/pagetally.v1.PaymentService/TogglePaid"
	PaymentServiceRecordPartialPaymentProcedure = "/pagetally.v1.PaymentService/RecordPartialPayment"
	PaymentServiceMarkAllPaidForPersonProcedure = "/pagetally.v1.PaymentService/MarkAllPaidForPerson"
)

// PaymentServiceClient is a client for the pagetally.v1.PaymentService service.
type PaymentServiceClient interface {
	ListShares(context.Context, *connect.Request[api.ListSharesRequest]) (*connect.Response[api.SharesResponse], error)
	AddPayer(context.Context, *connect.Request[api.AddPayerRequest]) (*connect.Response[api.SharesResponse], error)
	RemovePayer(context.Context, *connect.Request[api.RemovePayerRequest]) (*connect.Response[api.SharesResponse], error)
	TogglePaid(context.Context, *connect.Request[api.TogglePaidRequest]) (*connect.Response[api.SharesResponse], error)
	RecordPartialPayment(context.Context, *connect.Request[api.RecordPartialPaymentRequest]) (*connect.Response[api.SharesResponse], error)
	MarkAllPaidForPerson(context.Context, *connect.Request[api.MarkAllPaidForPersonRequest]) (*connect.Response[api.MarkAllPaidForPersonResponse], error)
}

// NewPaymentServiceClient constructs a client for the pagetally.v1.PaymentService service.
// baseURL is the server root, for example http://localhost:8080.
func NewPaymentServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) PaymentServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &paymentServiceClient{
		listShares: connect.NewClient[api.ListSharesRequest, api.SharesResponse](httpClient, baseURL+PaymentServiceListSharesProcedure, opts...),
		addPayer: connect.NewClient[api.AddPayerRequest, api.SharesResponse](httpClient, baseURL+PaymentServiceAddPayerProcedure, opts...),
		removePayer: connect.NewClient[api.RemovePayerRequest, api.SharesResponse](httpClient, baseURL+PaymentServiceRemovePayerProcedure, opts...),
		togglePaid: connect.NewClient[api.TogglePaidRequest, api.SharesResponse](httpClient, baseURL+PaymentServiceTogglePaidProcedure, opts...),
		recordPartialPayment: connect.NewClient[api.RecordPartialPaymentRequest, api.SharesResponse](httpClient, baseURL+PaymentServiceRecordPartialPaymentProcedure, opts...),
		markAllPaidForPerson: connect.NewClient[api.MarkAllPaidForPersonRequest, api.MarkAllPaidForPersonResponse](httpClient, baseURL+PaymentServiceMarkAllPaidForPersonProcedure, opts...),
	}
}

type paymentServiceClient struct {
	listShares *connect.Client[api.ListSharesRequest, api.SharesResponse]
	addPayer *connect.Client[api.AddPayerRequest, api.SharesResponse]
	removePayer *connect.Client[api.RemovePayerRequest, api.SharesResponse]
	togglePaid *connect.Client[api.TogglePaidRequest, api.SharesResponse]
	recordPartialPayment *connect.Client[api.RecordPartialPaymentRequest, api.SharesResponse]
	markAllPaidForPerson *connect.Client[api.MarkAllPaidForPersonRequest, api.MarkAllPaidForPersonResponse]
}

func (c *paymentServiceClient) ListShares(ctx context.Context, req *connect.Request[api.ListSharesRequest]) (*connect.Response[api.SharesResponse], error) {
	return c.listShares.CallUnary(ctx, req)
}

func (c *paymentServiceClient) AddPayer(ctx context.Context, req *connect.Request[api.AddPayerRequest]) (*connect.Response[api.SharesResponse], error) {
	return c.addPayer.CallUnary(ctx, req)
}

func (c *paymentServiceClient) RemovePayer(ctx context.Context, req *connect.Request[api.RemovePayerRequest]) (*connect.Response[api.SharesResponse], error) {
	return c.removePayer.CallUnary(ctx, req)
}

func (c *paymentServiceClient) TogglePaid(ctx context.Context, req *connect.Request[api.TogglePaidRequest]) (*connect.Response[api.SharesResponse], error) {
	return c.togglePaid.CallUnary(ctx, req)
}

func (c *paymentServiceClient) RecordPartialPayment(ctx context.Context, req *connect.Request[api.RecordPartialPaymentRequest]) (*connect.Response[api.SharesResponse], error) {
	return c.recordPartialPayment.CallUnary(ctx, req)
}

func (c *paymentServiceClient) MarkAllPaidForPerson(ctx context.Context, req *connect.Request[api.MarkAllPaidForPersonRequest]) (*connect.Response[api.MarkAllPaidForPersonResponse], error) {
	return c.markAllPaidForPerson.CallUnary(ctx, req)
}

// PaymentServiceHandler is implemented by the server side of pagetally.v1.PaymentService.
type PaymentServiceHandler interface {
	ListShares(context.Context, *connect.Request[api.ListSharesRequest]) (*connect.Response[api.SharesResponse], error)
	AddPayer(context.Context, *connect.Request[api.AddPayerRequest]) (*connect.Response[api.SharesResponse], error)
	RemovePayer(context.Context, *connect.Request[api.RemovePayerRequest]) (*connect.Response[api.SharesResponse], error)
	TogglePaid(context.Context, *connect.Request[api.TogglePaidRequest]) (*connect.Response[api.SharesResponse], error)
	RecordPartialPayment(context.Context, *connect.Request[api.RecordPartialPaymentRequest]) (*connect.Response[api.SharesResponse], error)
	MarkAllPaidForPerson(context.Context, *connect.Request[api.MarkAllPaidForPersonRequest]) (*connect.Response[api.MarkAllPaidForPersonResponse], error)
}

// NewPaymentServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewPaymentServiceHandler(svc PaymentServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	listSharesHandler := connect.NewUnaryHandler(PaymentServiceListSharesProcedure, svc.ListShares, opts...)
	addPayerHandler := connect.NewUnaryHandler(PaymentServiceAddPayerProcedure, svc.AddPayer, opts...)
	removePayerHandler := connect.NewUnaryHandler(PaymentServiceRemovePayerProcedure, svc.RemovePayer, opts...)
	togglePaidHandler := connect.NewUnaryHandler(PaymentServiceTogglePaidProcedure, svc.TogglePaid, opts...)
	recordPartialPaymentHandler := connect.NewUnaryHandler(PaymentServiceRecordPartialPaymentProcedure, svc.RecordPartialPayment, opts...)
	markAllPaidForPersonHandler := connect.NewUnaryHandler(PaymentServiceMarkAllPaidForPersonProcedure, svc.MarkAllPaidForPerson, opts...)
	return "/pagetally.v1.PaymentService/", jsonOnly(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PaymentServiceListSharesProcedure:
			listSharesHandler.ServeHTTP(w, r)
		case PaymentServiceAddPayerProcedure:
			addPayerHandler.ServeHTTP(w, r)
		case PaymentServiceRemovePayerProcedure:
			removePayerHandler.ServeHTTP(w, r)
		case PaymentServiceTogglePaidProcedure:
			togglePaidHandler.ServeHTTP(w, r)
		case PaymentServiceRecordPartialPaymentProcedure:
			recordPartialPaymentHandler.ServeHTTP(w, r)
		case PaymentServiceMarkAllPaidForPersonProcedure:
			markAllPaidForPersonHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
