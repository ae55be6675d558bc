/*
 * @Author:    thepoy
 * @File Name: options.go
 */

package asyncrawler

import (
	"strings"
	"time"

	"github.com/go-predator/asyncrawler/log"
	"github.com/go-predator/asyncrawler/proxypool"
	"github.com/go-predator/asyncrawler/store"
)

// OrchestratorOption configures an Orchestrator at construction time via
// the standard functional-options pattern.
type OrchestratorOption func(*Orchestrator)

// WithLogger attaches logger to the orchestrator and every component it
// wires up. A nil logger disables logging everywhere.
func WithLogger(logger *log.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		o.log = logger
	}
}

// WithDebugLogger attaches a console logger at DEBUG level, matching the
// `--debug` CLI flag spec.md §6 names.
func WithDebugLogger() OrchestratorOption {
	return func(o *Orchestrator) {
		o.log = log.NewLogger(log.DEBUG, log.ToConsole())
	}
}

// WithConcurrency sets the number of crawler worker goroutines (fetcher
// slots).
func WithConcurrency(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		o.concurrency = n
	}
}

// WithRetry sets the maximum retry budget passed to Transaction.CanRetry.
// Defaults to 1.
func WithRetry(maxRetries uint32) OrchestratorOption {
	return func(o *Orchestrator) {
		o.maxRetries = maxRetries
	}
}

// WithTimeout sets the per-fetch timeout. Defaults to 60s.
func WithTimeout(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		o.timeout = d
	}
}

// WithProxyPool wires a pre-built proxy pool into the orchestrator.
func WithProxyPool(pool *proxypool.Pool) OrchestratorOption {
	return func(o *Orchestrator) {
		o.proxies = pool
	}
}

// WithProxy wires a single proxy as a one-entry pool.
func WithProxy(proxyURL string) OrchestratorOption {
	return func(o *Orchestrator) {
		o.proxies = proxypool.New(proxyURL, nil)
	}
}

// WithStore wires a pre-opened persistent store. Without this option,
// New opens a default SQLite store under the framework's state
// directory (spec.md §6), configured by WithCacheTTL/WithCommitInterval.
func WithStore(s store.Store) OrchestratorOption {
	return func(o *Orchestrator) {
		o.store = s
	}
}

// WithCacheTTL sets the freshness window on the default store (store.
// Options.Expires): entries older than ttl read back as a cache miss.
// Zero, the default, means entries never go stale. Has no effect once
// WithStore supplies a pre-opened store.
func WithCacheTTL(ttl time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		o.cacheTTL = ttl
	}
}

// WithCommitInterval sets the default store's write-buffering threshold
// (store.Options.MaxOperations): a full commit is forced every n writes,
// in addition to the commit Run always performs at shutdown. Has no
// effect once WithStore supplies a pre-opened store.
func WithCommitInterval(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		o.commitInterval = n
	}
}

// WithQueueMode enables snapshot save/restore across runs, the `--queue`
// CLI flag spec.md §6 names.
func WithQueueMode() OrchestratorOption {
	return func(o *Orchestrator) {
		o.queueMode = true
	}
}

// WithSkipVerification disables TLS certificate verification on every
// fetch.
func WithSkipVerification() OrchestratorOption {
	return func(o *Orchestrator) {
		o.skipVerification = true
	}
}

// WithIPv6 enables dual-stack dialing.
func WithIPv6() OrchestratorOption {
	return func(o *Orchestrator) {
		o.enableIPv6 = true
	}
}

// WithCookies sets a default cookie header merged onto every request that
// doesn't already carry one.
func WithCookies(cookies map[string]string) OrchestratorOption {
	return func(o *Orchestrator) {
		o.cookies = cookies
	}
}

// WithRawCookie parses a raw "k1=v1; k2=v2" cookie header string.
func WithRawCookie(cookie string) OrchestratorOption {
	cookies := make(map[string]string)
	for _, part := range strings.Split(cookie, "; ") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && isCookieNameValid(kv[0]) {
			if v, ok := parseCookieValue(kv[1], true); ok {
				cookies[kv[0]] = v
			}
		}
	}
	return WithCookies(cookies)
}
