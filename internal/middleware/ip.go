package middleware

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ClientIP returns the host part of r.RemoteAddr. Forwarding headers are
// ignored; use a ProxyResolver when the server sits behind a proxy.
func ClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// ProxyResolver derives the client address from X-Forwarded-For or
// X-Real-IP, but only when the direct peer is a trusted proxy.
type ProxyResolver struct {
	trusted []netip.Prefix
}

// NewProxyResolver parses trusted proxies given as CIDRs ("10.0.0.0/8") or
// single addresses ("10.0.0.1"). An empty list trusts nobody.
func NewProxyResolver(proxies []string) (*ProxyResolver, error) {
	p := &ProxyResolver{}
	for _, s := range proxies {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if prefix, err := netip.ParsePrefix(s); err == nil {
			p.trusted = append(p.trusted, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(s)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q", s)
		}
		addr = addr.Unmap()
		p.trusted = append(p.trusted, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return p, nil
}

// ClientIP returns the client address of r. Behind trusted proxies it is
// the rightmost X-Forwarded-For entry that is not itself a trusted proxy,
// then X-Real-IP. Otherwise it is the direct peer.
func (p *ProxyResolver) ClientIP(r *http.Request) string {
	peer := ClientIP(r)
	if !p.isTrusted(peer) {
		return peer
	}

	if hops := forwardedFor(r); len(hops) > 0 {
		for i := len(hops) - 1; i >= 0; i-- {
			addr, err := netip.ParseAddr(hops[i])
			if err != nil {
				return peer
			}
			if !p.isTrustedAddr(addr) || i == 0 {
				return addr.Unmap().String()
			}
		}
	}

	if addr, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return addr.Unmap().String()
	}
	return peer
}

func (p *ProxyResolver) isTrusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	return err == nil && p.isTrustedAddr(addr)
}

func (p *ProxyResolver) isTrustedAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, prefix := range p.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// forwardedFor flattens every X-Forwarded-For header into its hops, in order.
func forwardedFor(r *http.Request) []string {
	var hops []string
	for _, v := range r.Header.Values("X-Forwarded-For") {
		for _, hop := range strings.Split(v, ",") {
			if hop = strings.TrimSpace(hop); hop != "" {
				hops = append(hops, hop)
			}
		}
	}
	return hops
}
