package middlewares

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// clientIPHeaders are consulted in order. X-Forwarded-For only contributes
// its left-most entry.
var clientIPHeaders = []string{"True-Client-IP", "X-Real-IP", "X-Forwarded-For"}

// ClientIPMiddleware rewrites RemoteAddr to "clientIP:port" using proxy
// headers, so session and sign-in logs carry the browser's address.
func ClientIPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if clientIP, ok := extractClientIP(r); ok {
			port := "0"
			if _, p, err := net.SplitHostPort(r.RemoteAddr); err == nil && p != "" {
				port = p
			}
			r.RemoteAddr = net.JoinHostPort(clientIP.String(), port)
		}

		next.ServeHTTP(w, r)
	})
}

func extractClientIP(r *http.Request) (netip.Addr, bool) {
	for _, header := range clientIPHeaders {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}

		if header == "X-Forwarded-For" {
			value, _, _ = strings.Cut(value, ",")
		}

		if addr, err := netip.ParseAddr(strings.TrimSpace(value)); err == nil {
			return addr.Unmap(), true
		}
	}

	if addrPort, err := netip.ParseAddrPort(r.RemoteAddr); err == nil {
		return addrPort.Addr().Unmap(), true
	}

	if addr, err := netip.ParseAddr(r.RemoteAddr); err == nil {
		return addr.Unmap(), true
	}

	return netip.Addr{}, false
}
