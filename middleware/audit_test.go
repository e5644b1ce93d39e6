package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestGetClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{
			name:       "leftmost forwarded-for entry wins",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.7, 10.0.0.1"},
			remoteAddr: "10.0.0.1:54321",
			want:       "198.51.100.7",
		},
		{
			name:       "x-real-ip when forwarded-for absent",
			headers:    map[string]string{"X-Real-Ip": "198.51.100.8"},
			remoteAddr: "10.0.0.1:54321",
			want:       "198.51.100.8",
		},
		{
			name:       "garbage forwarded-for falls through",
			headers:    map[string]string{"X-Forwarded-For": "not-an-ip"},
			remoteAddr: "192.0.2.4:1234",
			want:       "192.0.2.4",
		},
		{
			name:       "socket address fallback",
			remoteAddr: "192.0.2.4:1234",
			want:       "192.0.2.4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}

			if got := getClientIP(c); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetIPFromContextPrefersStoredValue(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "192.0.2.4:1234"
	c.Set("client_ip", "198.51.100.7")

	if got := GetIPFromContext(c); got != "198.51.100.7" {
		t.Errorf("GetIPFromContext() = %q, want stored value", got)
	}
}
