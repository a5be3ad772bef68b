package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/pagetally/internal/drafts"
	"github.com/mmynk/pagetally/internal/middleware"
	"github.com/mmynk/pagetally/internal/models"
	"github.com/mmynk/pagetally/internal/storage/sqlite"
	"github.com/mmynk/pagetally/pkg/api"
	"github.com/mmynk/pagetally/pkg/api/apiconnect"
)

// testUserHeader selects which stored user the test interceptor authenticates.
const testUserHeader = "X-Test-User"

// testAuthInterceptor returns a Connect interceptor that sets a test user ID in the context.
func testAuthInterceptor(defaultUserID string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			userID := req.Header().Get(testUserHeader)
			if userID == "" {
				userID = defaultUserID
			}
			ctx = context.WithValue(ctx, middleware.UserIDKey, userID)
			return next(ctx, req)
		}
	}
}

type testEnv struct {
	store   *sqlite.SQLiteStore
	drafts  *drafts.MemoryStore
	user    *models.User
	other   *models.User
	calc    apiconnect.CalculatorServiceClient
	payment apiconnect.PaymentServiceClient
	history apiconnect.HistoryServiceClient
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testOptions prices drafts at the stock per-page rate with no default payers.
func testOptions() CalculatorOptions {
	return CalculatorOptions{DefaultPrice: models.DefaultPricePerPage}
}

// setupTestServer creates a test server backed by a temp SQLite database.
func setupTestServer(t *testing.T, opts CalculatorOptions) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	env := &testEnv{store: store, drafts: drafts.NewMemoryStore()}
	env.user = models.NewUser("alice@example.com", "Alice", "hash")
	env.other = models.NewUser("mallory@example.com", "Mallory", "hash")
	for _, u := range []*models.User{env.user, env.other} {
		if err := store.CreateUser(context.Background(), u); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
	}

	logger := testLogger()
	interceptors := connect.WithInterceptors(testAuthInterceptor(env.user.ID))

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewCalculatorServiceHandler(NewCalculatorService(store, env.drafts, opts, logger), interceptors))
	mux.Handle(apiconnect.NewPaymentServiceHandler(NewPaymentService(store, logger), interceptors))
	mux.Handle(apiconnect.NewHistoryServiceHandler(NewHistoryService(store, logger), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	env.calc = apiconnect.NewCalculatorServiceClient(http.DefaultClient, server.URL)
	env.payment = apiconnect.NewPaymentServiceClient(http.DefaultClient, server.URL)
	env.history = apiconnect.NewHistoryServiceClient(http.DefaultClient, server.URL)
	return env
}

// addDocs adds manual documents with the given page counts.
func addDocs(t *testing.T, env *testEnv, pages ...int) *api.Draft {
	t.Helper()

	var draft *api.Draft
	for i, n := range pages {
		resp, err := env.calc.AddManualDocument(context.Background(), connect.NewRequest(&api.AddManualDocumentRequest{
			Name:      "doc-" + string(rune('a'+i)),
			PageCount: n,
		}))
		if err != nil {
			t.Fatalf("AddManualDocument failed: %v", err)
		}
		draft = resp.Msg.Draft
	}
	return draft
}

// saveBatch saves the current draft with the given payers.
func saveBatch(t *testing.T, env *testEnv, payers ...string) *api.SaveBatchResponse {
	t.Helper()

	resp, err := env.calc.SaveBatch(context.Background(), connect.NewRequest(&api.SaveBatchRequest{Payers: payers}))
	if err != nil {
		t.Fatalf("SaveBatch failed: %v", err)
	}
	return resp.Msg
}

// shareByName finds a share by person name.
func shareByName(t *testing.T, shares []api.PaymentShare, name string) api.PaymentShare {
	t.Helper()

	for _, s := range shares {
		if s.PersonName == name {
			return s
		}
	}
	t.Fatalf("no share for %q in %+v", name, shares)
	return api.PaymentShare{}
}

func expectCode(t *testing.T, err error, code connect.Code) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %v error, got nil", code)
	}
	if got := connect.CodeOf(err); got != code {
		t.Fatalf("expected code %v, got %v (%v)", code, got, err)
	}
}
