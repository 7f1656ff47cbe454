package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shelfmark/shelfmark/internal/auth"
	"github.com/shelfmark/shelfmark/internal/handler/dto"
)

func TestRegister_Success(t *testing.T) {
	h, _, tokens := newTestAuthHandler()

	body := `{"email":"alice@example.com","password":"secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.AuthResponse
	decodeBody(t, rec, &resp)

	if resp.Token == "" {
		t.Error("expected a token")
	}
	if resp.User.ID == "" || resp.User.Email != "alice@example.com" {
		t.Errorf("unexpected user view: %+v", resp.User)
	}

	uid, err := tokens.Verify(resp.Token)
	if err != nil {
		t.Fatalf("returned token did not verify: %v", err)
	}
	if uid != resp.User.ID {
		t.Errorf("token user %s does not match user view %s", uid, resp.User.ID)
	}

	// The hash must never appear in the response.
	if strings.Contains(rec.Body.String(), "argon2id") {
		t.Error("response leaks the password hash")
	}
}

func TestRegister_ValidationErrors(t *testing.T) {
	h, _, _ := newTestAuthHandler()

	body := `{"email":"not-an-email","password":"123"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	decodeBody(t, rec, &resp)

	if len(resp.Errors) != 2 {
		t.Errorf("expected both violations reported, got %v", resp.Errors)
	}
	if resp.Message == "" {
		t.Error("expected a message alongside the errors list")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	h, _, _ := newTestAuthHandler()

	body := `{"email":"alice@example.com","password":"secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	h.Register(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Message != "User already exists with this email" {
		t.Errorf("unexpected message: %s", resp.Message)
	}
}

func TestRegister_MalformedBody(t *testing.T) {
	h, _, _ := newTestAuthHandler()

	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed JSON, got %d", rec.Code)
	}
}

func TestLogin_InvalidCredentialsUnified(t *testing.T) {
	h, _, _ := newTestAuthHandler()

	register := `{"email":"alice@example.com","password":"secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(register))
	h.Register(httptest.NewRecorder(), req)

	attempts := []string{
		`{"email":"alice@example.com","password":"wrong-password"}`,
		`{"email":"nobody@example.com","password":"secret1"}`,
	}

	var bodies []string
	for _, attempt := range attempts {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(attempt))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		bodies = append(bodies, rec.Body.String())
	}

	// Wrong password and unknown email must be indistinguishable.
	if bodies[0] != bodies[1] {
		t.Errorf("login failure bodies differ:\n%s\n%s", bodies[0], bodies[1])
	}
}

func TestLogin_Success(t *testing.T) {
	h, _, _ := newTestAuthHandler()

	register := `{"email":"alice@example.com","password":"secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(register))
	h.Register(httptest.NewRecorder(), req)

	// Email lookup is case-insensitive via normalization.
	login := `{"email":" ALICE@example.com ","password":"secret1"}`
	req = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(login))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.AuthResponse
	decodeBody(t, rec, &resp)
	if resp.Token == "" {
		t.Error("expected a token")
	}
}

func TestProfile(t *testing.T) {
	h, users, _ := newTestAuthHandler()

	register := `{"email":"alice@example.com","password":"secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(register))
	reg := httptest.NewRecorder()
	h.Register(reg, req)

	var created dto.AuthResponse
	decodeBody(t, reg, &created)

	req = httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	user := users.byID[created.User.ID]
	ctx := auth.ContextWithIdentity(req.Context(), identityFor(user.ID, user.Email))
	rec := httptest.NewRecorder()
	h.Profile(rec, req.WithContext(ctx))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ProfileResponse
	decodeBody(t, rec, &resp)
	if resp.User.ID != created.User.ID || resp.User.Email != "alice@example.com" {
		t.Errorf("unexpected profile: %+v", resp.User)
	}
	if resp.User.CreatedAt.IsZero() {
		t.Error("expected createdAt in profile view")
	}
}

func TestProfile_VanishedAccount(t *testing.T) {
	h, _, _ := newTestAuthHandler()

	req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	ctx := auth.ContextWithIdentity(req.Context(), identityFor("gone-user", "gone@example.com"))
	rec := httptest.NewRecorder()
	h.Profile(rec, req.WithContext(ctx))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for vanished account, got %d", rec.Code)
	}
}
