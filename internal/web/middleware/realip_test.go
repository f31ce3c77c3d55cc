package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name    string
		trusted []string
		remote  string
		headers map[string]string
		want    string
	}{
		{
			name:   "no trusted proxies ignores headers",
			remote: "10.0.0.1:4000",
			headers: map[string]string{
				"X-Real-IP": "203.0.113.9",
			},
			want: "10.0.0.1:4000",
		},
		{
			name:    "trusted CIDR uses X-Real-IP",
			trusted: []string{"10.0.0.0/8"},
			remote:  "10.1.2.3:4000",
			headers: map[string]string{"X-Real-IP": "203.0.113.9"},
			want:    "203.0.113.9",
		},
		{
			name:    "trusted single address uses first forwarded hop",
			trusted: []string{"127.0.0.1"},
			remote:  "127.0.0.1:4000",
			headers: map[string]string{"X-Forwarded-For": "198.51.100.7, 10.0.0.2"},
			want:    "198.51.100.7",
		},
		{
			name:    "X-Real-IP wins over X-Forwarded-For",
			trusted: []string{"127.0.0.1/32"},
			remote:  "127.0.0.1:4000",
			headers: map[string]string{
				"X-Real-IP":       "203.0.113.9",
				"X-Forwarded-For": "198.51.100.7",
			},
			want: "203.0.113.9",
		},
		{
			name:    "untrusted source keeps RemoteAddr",
			trusted: []string{"10.0.0.0/8"},
			remote:  "192.168.1.5:4000",
			headers: map[string]string{"X-Real-IP": "203.0.113.9"},
			want:    "192.168.1.5:4000",
		},
		{
			name:    "invalid header value is ignored",
			trusted: []string{"10.0.0.0/8"},
			remote:  "10.1.2.3:4000",
			headers: map[string]string{"X-Real-IP": "not-an-ip"},
			want:    "10.1.2.3:4000",
		},
		{
			name:    "invalid trusted entry is skipped",
			trusted: []string{"bogus", "10.0.0.0/8"},
			remote:  "10.1.2.3:4000",
			headers: map[string]string{"X-Real-IP": "203.0.113.9"},
			want:    "203.0.113.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := TrustedRealIP(tt.trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
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

func TestLoggerCapturesStatus(t *testing.T) {
	var captured *responseWriter
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK) // ignored
		w.Write([]byte("short and stout"))
		captured = w.(*responseWriter)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pot", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("recorded status = %d, want %d", rec.Code, http.StatusTeapot)
	}
	if captured.status != http.StatusTeapot {
		t.Errorf("captured status = %d, want %d", captured.status, http.StatusTeapot)
	}
	if captured.bytes != len("short and stout") {
		t.Errorf("captured bytes = %d", captured.bytes)
	}
}
