/*
 * @Author:    thepoy
 * @File Name: dialer.go
 */

package proxypool

import (
	"net"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/go-predator/asyncrawler/proxy"
)

// Dialer returns the fasthttp.DialFunc appropriate for proxyURL's scheme —
// SOCKS5 or HTTP CONNECT — dispatching on the scheme prefix alone, since it
// only needs the proxy string and no other crawler state.
func Dialer(proxyURL string, timeout time.Duration) fasthttp.DialFunc {
	if strings.HasPrefix(proxyURL, "socks5://") {
		return proxy.Socks5ProxyDialer(proxyURL)
	}

	return func(addr string) (net.Conn, error) {
		return proxy.HttpProxy(proxyURL, addr, timeout)
	}
}
