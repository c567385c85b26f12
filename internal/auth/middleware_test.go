package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coursedesk/course-api/internal/user/domain"
	userrepo "github.com/coursedesk/course-api/internal/user/repository"
)

func authenticatorForUser(t *testing.T, user domain.User, password string) *Authenticator {
	t.Helper()

	store := &fakeStore{
		findByEmail: func(_ context.Context, email string) (domain.User, error) {
			if email == user.EmailAddress {
				return user, nil
			}
			return domain.User{}, userrepo.ErrUserNotFound
		},
	}
	hasher := &fakeHasher{
		compare: func(hash, candidate string) error {
			if hash == user.PasswordHash && candidate == password {
				return nil
			}
			return errors.New("mismatch")
		},
	}

	return NewAuthenticator(store, hasher, testLogger(t))
}

func TestRequireUser_AttachesIdentity(t *testing.T) {
	user := domain.User{ID: 3, EmailAddress: "sally@jones.com", PasswordHash: "hashed:sallypassword"}
	authenticator := authenticatorForUser(t, user, "sallypassword")

	var seen domain.User
	var found bool

	handler := RequireUser(authenticator, testLogger(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, found = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", basicHeader("sally@jones.com", "sallypassword"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if !found {
		t.Fatal("expected identity in context")
	}
	if seen.ID != user.ID {
		t.Errorf("expected user %d, got %d", user.ID, seen.ID)
	}
}

func TestRequireUser_IdenticalFailureBodies(t *testing.T) {
	user := domain.User{ID: 3, EmailAddress: "sally@jones.com", PasswordHash: "hashed:sallypassword"}
	authenticator := authenticatorForUser(t, user, "sallypassword")

	handler := RequireUser(authenticator, testLogger(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("protected handler must not run on auth failure")
	}))

	headers := map[string]string{
		"no header":      "",
		"unknown email":  basicHeader("nobody@jones.com", "sallypassword"),
		"wrong password": basicHeader("sally@jones.com", "wrong"),
	}

	var bodies []string

	for name, header := range headers {
		req := httptest.NewRequest(http.MethodPut, "/courses/1", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", name, rec.Code)
		}
		bodies = append(bodies, rec.Body.String())
	}

	for i := 1; i < len(bodies); i++ {
		if bodies[i] != bodies[0] {
			t.Errorf("401 bodies must be byte-identical: %q vs %q", bodies[0], bodies[i])
		}
	}

	want := `{"message":"Access Denied"}` + "\n"
	if bodies[0] != want {
		t.Errorf("expected body %q, got %q", want, bodies[0])
	}
}

func TestRequireUser_StoreFailureIsNot401(t *testing.T) {
	store := &fakeStore{
		findByEmail: func(context.Context, string) (domain.User, error) {
			return domain.User{}, errors.New("connection refused")
		},
	}
	hasher := &fakeHasher{compare: func(string, string) error { return nil }}
	authenticator := NewAuthenticator(store, hasher, testLogger(t))

	handler := RequireUser(authenticator, testLogger(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("protected handler must not run when the store is down")
	}))

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", basicHeader("sally@jones.com", "sallypassword"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for a credential-store failure, got %d", rec.Code)
	}
	body := rec.Body.String()
	if body != `{"message":"internal server error"}`+"\n" {
		t.Errorf("store failure must stay opaque, got %q", body)
	}
}

func TestFromContext_Empty(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("expected no identity in empty context")
	}
}

func TestContextWithUser_RoundTrip(t *testing.T) {
	ctx := ContextWithUser(context.Background(), domain.User{ID: 9, EmailAddress: "sally@jones.com"})

	user, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected identity in context")
	}
	if user.ID != 9 {
		t.Errorf("expected user 9, got %d", user.ID)
	}
}
