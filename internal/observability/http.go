package observability

import (
	"net"
	"net/http"
	"strings"
)

// RequestIdentity is what we can tell about the caller from headers
// alone. It tags websocket connection logs.
type RequestIdentity struct {
	DeviceID  string
	RequestID string
	IP        string
}

// IdentityFromRequest extracts the caller identity headers. The client
// IP prefers the first X-Forwarded-For hop over the socket peer.
func IdentityFromRequest(r *http.Request) RequestIdentity {
	return RequestIdentity{
		DeviceID:  r.Header.Get("X-Device-Id"),
		RequestID: r.Header.Get("X-Request-Id"),
		IP:        clientIP(r),
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
