package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shelfmark/shelfmark/internal/handler/dto"
	"github.com/shelfmark/shelfmark/internal/middleware"
	"github.com/shelfmark/shelfmark/internal/service"
	"github.com/shelfmark/shelfmark/internal/token"
)

// newTestAPI wires a full router the way cmd/api does, backed by
// in-memory stores.
func newTestAPI(t *testing.T) (*chi.Mux, *token.Service) {
	t.Helper()

	users := newMemUserStore()
	books := &memBookStore{}
	tokens := newTestTokenService()
	logger := testLogger()

	authHandler := NewAuthHandler(service.NewAuthService(users, tokens, nil), logger, false)
	bookHandler := NewBookHandler(service.NewBookService(books, nil), logger, false)
	healthHandler := NewHealthHandler(nil, nil)
	h := New()

	gate := middleware.Auth(middleware.AuthConfig{
		Logger: logger,
		Tokens: tokens,
		Users:  users,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)

	r.Get("/health", healthHandler.Health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.With(gate).Get("/profile", authHandler.Profile)
	})

	r.Route("/books", func(r chi.Router) {
		r.Use(gate)
		r.Get("/", bookHandler.List)
		r.Post("/", bookHandler.Create)
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r, tokens
}

func doJSON(t *testing.T, r http.Handler, method, path, body, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAPI_FullScenario(t *testing.T) {
	r, _ := newTestAPI(t)

	// Register alice.
	rec := doJSON(t, r, http.MethodPost, "/auth/register", `{"email":"alice@example.com","password":"secret1"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var reg dto.AuthResponse
	decodeBody(t, rec, &reg)
	t1 := reg.Token

	// Create a book with the fresh token.
	rec = doJSON(t, r, http.MethodPost, "/books/", `{"title":"Dune","author":"Frank Herbert"}`, t1)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create book: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created dto.BookResponse
	decodeBody(t, rec, &created)
	if created.ID == "" || created.Title != "Dune" {
		t.Fatalf("unexpected created book: %+v", created)
	}

	// List returns exactly that book.
	rec = doJSON(t, r, http.MethodGet, "/books/", "", t1)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	var books []dto.BookResponse
	decodeBody(t, rec, &books)
	if len(books) != 1 || books[0].ID != created.ID {
		t.Fatalf("expected exactly the created book, got %v", books)
	}

	// Empty title is rejected, citing the title field.
	rec = doJSON(t, r, http.MethodPost, "/books/", `{"title":"","author":"Author"}`, t1)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid create: expected 400, got %d", rec.Code)
	}
	var errResp dto.ErrorResponse
	decodeBody(t, rec, &errResp)
	cited := false
	for _, fe := range errResp.Errors {
		if fe.Param == "title" {
			cited = true
		}
	}
	if !cited {
		t.Errorf("expected the title field to be cited, got %v", errResp.Errors)
	}

	// No Authorization header is rejected.
	rec = doJSON(t, r, http.MethodGet, "/books/", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no auth header: expected 401, got %d", rec.Code)
	}

	// Profile round trip.
	rec = doJSON(t, r, http.MethodGet, "/auth/profile", "", t1)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d", rec.Code)
	}
	var profile dto.ProfileResponse
	decodeBody(t, rec, &profile)
	if profile.User.Email != "alice@example.com" {
		t.Errorf("unexpected profile: %+v", profile.User)
	}

	// Health needs no auth.
	rec = doJSON(t, r, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Errorf("health: expected 200, got %d", rec.Code)
	}
}

func TestAPI_RegisterThenLoginTokensAgree(t *testing.T) {
	r, tokens := newTestAPI(t)

	rec := doJSON(t, r, http.MethodPost, "/auth/register", `{"email":"alice@example.com","password":"secret1"}`, "")
	var reg dto.AuthResponse
	decodeBody(t, rec, &reg)

	rec = doJSON(t, r, http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"secret1"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", rec.Code)
	}
	var login dto.AuthResponse
	decodeBody(t, rec, &login)

	regUID, err := tokens.Verify(reg.Token)
	if err != nil {
		t.Fatalf("register token invalid: %v", err)
	}
	loginUID, err := tokens.Verify(login.Token)
	if err != nil {
		t.Fatalf("login token invalid: %v", err)
	}
	if regUID != loginUID {
		t.Errorf("tokens verify to different users: %s vs %s", regUID, loginUID)
	}
}

func TestAPI_CrossUserIsolation(t *testing.T) {
	r, _ := newTestAPI(t)

	registerAndToken := func(email string) string {
		rec := doJSON(t, r, http.MethodPost, "/auth/register", `{"email":"`+email+`","password":"secret1"}`, "")
		if rec.Code != http.StatusCreated {
			t.Fatalf("register %s: got %d", email, rec.Code)
		}
		var resp dto.AuthResponse
		decodeBody(t, rec, &resp)
		return resp.Token
	}

	tokenA := registerAndToken("a@example.com")
	tokenB := registerAndToken("b@example.com")

	rec := doJSON(t, r, http.MethodPost, "/books/", `{"title":"Dune","author":"Frank Herbert"}`, tokenA)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodGet, "/books/", "", tokenB)
	var booksB []dto.BookResponse
	decodeBody(t, rec, &booksB)
	if len(booksB) != 0 {
		t.Errorf("user B must not see user A's books, got %v", booksB)
	}
}

func TestAPI_ExpiredTokenRejectedEverywhere(t *testing.T) {
	r, _ := newTestAPI(t)

	rec := doJSON(t, r, http.MethodPost, "/auth/register", `{"email":"alice@example.com","password":"secret1"}`, "")
	var reg dto.AuthResponse
	decodeBody(t, rec, &reg)

	// Same secret, negative lifetime: a well-signed but expired token.
	expired, err := token.New([]byte("handler-test-secret"), -time.Minute).Issue(reg.User.ID)
	if err != nil {
		t.Fatalf("issue expired token: %v", err)
	}

	protected := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/books/", ""},
		{http.MethodPost, "/books/", `{"title":"Dune","author":"X"}`},
		{http.MethodGet, "/auth/profile", ""},
	}

	for _, op := range protected {
		rec := doJSON(t, r, op.method, op.path, op.body, expired)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s with expired token: expected 401, got %d", op.method, op.path, rec.Code)
		}
	}
}
