package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JonMunkholm/datetable/internal/config"
	"github.com/JonMunkholm/datetable/internal/core"
	"github.com/JonMunkholm/datetable/internal/dataset"
)

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name       string
		trusted    []string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"untrusted ignores header", nil, "203.0.113.5:4000", map[string]string{"X-Real-IP": "10.0.0.1"}, "203.0.113.5"},
		{"trusted X-Real-IP", []string{"10.0.0.0/8"}, "10.1.2.3:80", map[string]string{"X-Real-IP": "198.51.100.7"}, "198.51.100.7"},
		{"trusted X-Forwarded-For first hop", []string{"10.0.0.0/8"}, "10.1.2.3:80", map[string]string{"X-Forwarded-For": "198.51.100.7, 10.1.2.3"}, "198.51.100.7"},
		{"trusted single IP", []string{"127.0.0.1"}, "127.0.0.1:80", map[string]string{"X-Real-IP": "198.51.100.8"}, "198.51.100.8"},
		{"invalid header value", []string{"10.0.0.0/8"}, "10.1.2.3:80", map[string]string{"X-Real-IP": "not-an-ip"}, "10.1.2.3"},
		{"invalid CIDR skipped", []string{"bogus"}, "10.1.2.3:80", map[string]string{"X-Real-IP": "198.51.100.7"}, "10.1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := TrustedRealIP(tt.trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLogger_CapturesStatus(t *testing.T) {
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", rec.Code)
	}
}

func TestResponseWriter_Unwrap(t *testing.T) {
	rec := httptest.NewRecorder()
	ww := &responseWriter{ResponseWriter: rec, status: http.StatusOK}

	if err := http.NewResponseController(ww).Flush(); err != nil {
		t.Errorf("Flush through wrapper: %v", err)
	}
	n, _ := ww.Write([]byte("abc"))
	if n != 3 || ww.bytes != 3 {
		t.Errorf("bytes = %d", ww.bytes)
	}
}

func newService(t *testing.T, maxSessions int) *core.Service {
	t.Helper()
	svc, err := core.NewService([]dataset.Record{{Name: "Ana", LastName: "Martínez", Age: 41, Status: "Activo"}}, nil, core.Options{MaxSessions: maxSessions})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	t.Cleanup(svc.Close)
	return svc
}

func TestSession(t *testing.T) {
	svc := newService(t, 0)
	cfg := config.SessionConfig{CookieName: "sid", SecureCookie: true}

	var seen []string
	h := Session(svc, cfg, func(w http.ResponseWriter, r *http.Request, err error) {
		t.Fatalf("unexpected session error: %v", err)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := core.SessionFromContext(r.Context())
		if sess == nil {
			t.Fatal("no session in context")
		}
		seen = append(seen, sess.ID())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "sid" || !cookies[0].Secure || !cookies[0].HttpOnly {
		t.Fatalf("cookies = %+v", cookies)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if len(rec.Result().Cookies()) != 0 {
		t.Error("existing session got a new cookie")
	}

	// An expired id is replaced.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "gone"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if len(rec.Result().Cookies()) != 1 {
		t.Error("unknown session id should get a fresh cookie")
	}

	if len(seen) != 3 || seen[0] != seen[1] || seen[2] == seen[0] {
		t.Errorf("session ids = %v", seen)
	}
}

func TestSession_Error(t *testing.T) {
	svc := newService(t, 1)
	if _, err := svc.NewSession(context.Background()); err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	var gotErr error
	h := Session(svc, config.SessionConfig{CookieName: "sid"}, func(w http.ResponseWriter, r *http.Request, err error) {
		gotErr = err
		w.WriteHeader(http.StatusServiceUnavailable)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler reached without a session")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if !errors.Is(gotErr, core.ErrTooManySessions) {
		t.Errorf("error = %v, want ErrTooManySessions", gotErr)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d", rec.Code)
	}
}
