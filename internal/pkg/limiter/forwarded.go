package limiter

import (
	"net/http"
	"net/netip"
	"strings"
)

// forwardedHeaders are the client address headers chi's RealIP middleware reads.
var forwardedHeaders = []string{"True-Client-IP", "X-Real-IP", "X-Forwarded-For"}

// TrustedForwarding must run before middleware.RealIP. Requests whose socket peer is not
// inside proxies lose every forwarded address header, so RealIP keeps the socket address
// and a client cannot pick its own rate limit bucket.
//
// For a trusted peer the X-Forwarded-For chain is walked from the right and the first
// hop that is not itself a trusted proxy becomes X-Real-IP. Entries left of it were
// written by the client and are ignored.
func TrustedForwarding(proxies []netip.Prefix) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			peer, ok := peerAddr(r.RemoteAddr)
			if !ok || !trusted(proxies, peer) {
				for _, h := range forwardedHeaders {
					r.Header.Del(h)
				}
				next.ServeHTTP(w, r)
				return
			}

			r.Header.Del("True-Client-IP")
			client, found := clientFromChain(r.Header.Values("X-Forwarded-For"), proxies)
			r.Header.Del("X-Forwarded-For")
			if found {
				r.Header.Set("X-Real-IP", client.String())
			}

			next.ServeHTTP(w, r)
		})
	}
}

func peerAddr(remote string) (netip.Addr, bool) {
	if ap, err := netip.ParseAddrPort(remote); err == nil {
		return ap.Addr().Unmap(), true
	}
	addr, err := netip.ParseAddr(remote)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

func trusted(proxies []netip.Prefix, addr netip.Addr) bool {
	for _, p := range proxies {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

func clientFromChain(values []string, proxies []netip.Prefix) (netip.Addr, bool) {
	var hops []string
	for _, v := range values {
		hops = append(hops, strings.Split(v, ",")...)
	}

	for i := len(hops) - 1; i >= 0; i-- {
		addr, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			return netip.Addr{}, false
		}
		addr = addr.Unmap()
		if !trusted(proxies, addr) {
			return addr, true
		}
	}
	return netip.Addr{}, false
}
