package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAdminAuth_WithValidCookie(t *testing.T) {
	m := NewAdminAuth("test-secret")

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		login, ok := GetAdminFromContext(r.Context())
		if !ok {
			t.Fatalf("admin login not in context")
		}
		if login != "operador" {
			t.Fatalf("login from context = %q, want operador", login)
		}
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/admin/generos", nil)

	m.SetSessionCookie(w, "operador")
	resCookies := w.Result().Cookies()
	if len(resCookies) == 0 {
		t.Fatalf("no cookies set by SetSessionCookie")
	}

	r.AddCookie(resCookies[0])

	handler := m.Middleware(next)
	handler.ServeHTTP(httptest.NewRecorder(), r)

	if !nextCalled {
		t.Fatalf("next handler was not called")
	}
}

func TestAdminAuth_WithoutCookie(t *testing.T) {
	m := NewAdminAuth("test-secret")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler should not be called")
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/admin/generos", nil)

	handler := m.Middleware(next)
	handler.ServeHTTP(w, r)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestAdminAuth_TamperedCookie(t *testing.T) {
	m := NewAdminAuth("test-secret")
	otro := NewAdminAuth("other-secret")

	w := httptest.NewRecorder()
	otro.SetSessionCookie(w, "operador")
	cookie := w.Result().Cookies()[0]

	r := httptest.NewRequest(http.MethodGet, "/api/admin/generos", nil)
	r.AddCookie(cookie)

	rec := httptest.NewRecorder()
	m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler should not be called")
	})).ServeHTTP(rec, r)

	if rec.Result().StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusUnauthorized)
	}
}
