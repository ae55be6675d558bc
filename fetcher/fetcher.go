/*
 * @Author:    thepoy
 * @File Name: fetcher.go
 */

// Package fetcher executes a single Transaction against an abstract
// fasthttp client, grounded on craw.go's do/newFasthttpRequest/prepare
// content-type branching logic, generalized from a Crawler method into a
// standalone component the pipeline's CrawlerWorker pool drives.
package fetcher

import (
	"crypto/tls"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/go-predator/asyncrawler/json"
	"github.com/go-predator/asyncrawler/log"
	"github.com/go-predator/asyncrawler/proxypool"
	"github.com/go-predator/asyncrawler/transaction"
)

// Fetcher executes Transactions over HTTP. It is safe for concurrent use
// by any number of CrawlerWorker goroutines.
type Fetcher struct {
	// SkipVerification disables TLS certificate verification.
	SkipVerification bool
	// EnableIPv6 turns on fasthttp's dual-stack dialing.
	EnableIPv6 bool
	// DefaultCookies, if set, is rendered into a "Cookie" header on every
	// outgoing request that doesn't already carry one. It is applied to the
	// wire request only, never written back into txn.Headers, so it never
	// affects Transaction.Fingerprint.
	DefaultCookies map[string]string

	log *log.Logger

	// clients caches one *fasthttp.Client per proxy URL (and one for the
	// no-proxy/direct case) so concurrent fetches never share mutable
	// dial state — a single shared client with its Dial field mutated
	// under a lock per request is only safe when requests are
	// serialized; this pipeline runs N fetcher goroutines truly
	// concurrently, so each proxy identity gets its own client instead.
	clients sync.Map // proxyURL -> *fasthttp.Client
}

// New returns a Fetcher. logger may be nil.
func New(logger *log.Logger) *Fetcher {
	return &Fetcher{log: logger}
}

func tlsInsecureConfig() *tls.Config {
	return &tls.Config{InsecureSkipVerify: true}
}

func (f *Fetcher) clientFor(proxyURL string, timeout time.Duration) *fasthttp.Client {
	if c, ok := f.clients.Load(proxyURL); ok {
		return c.(*fasthttp.Client)
	}

	client := &fasthttp.Client{
		DialDualStack: f.EnableIPv6,
	}
	if f.SkipVerification {
		client.TLSConfig = tlsInsecureConfig()
	}
	if proxyURL != "" {
		dial := proxypool.Dialer(proxyURL, timeout)
		client.Dial = dial
	}

	actual, _ := f.clients.LoadOrStore(proxyURL, client)
	return actual.(*fasthttp.Client)
}

// Fetch executes txn's request through proxyURL (empty string for a direct
// connection) with the given user agent and timeout, mutating txn in
// place: on success, Status and BodyOut are populated; on any transport
// error, Status is set to the synthetic local-failure code
// transaction.StatusLocalFailure if it was still zero, and Fetch returns
// normally — the caller (CrawlerWorker) interprets txn.Status, not the
// returned error, for control flow. The returned error is nonetheless
// surfaced for logging and proxy-failure accounting.
func (f *Fetcher) Fetch(txn *transaction.Transaction, proxyURL, userAgent string, timeout time.Duration) error {
	req, err := f.buildRequest(txn, userAgent)
	if err != nil {
		return err
	}
	defer fasthttp.ReleaseRequest(req)

	client := f.clientFor(proxyURL, timeout)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if timeout > 0 {
		err = client.DoTimeout(req, resp, timeout)
	} else {
		err = client.Do(req, resp)
	}

	if err != nil {
		if f.log != nil {
			f.log.Error(err, log.Arg{Key: "url", Value: txn.URL})
		}
		if txn.Status == 0 {
			txn.Status = transaction.StatusLocalFailure
		}
		return err
	}

	txn.Status = uint16(resp.StatusCode())
	txn.BodyOut = decodeBody(resp)

	return nil
}

func (f *Fetcher) buildRequest(txn *transaction.Transaction, userAgent string) (*fasthttp.Request, error) {
	req := fasthttp.AcquireRequest()

	for k, v := range txn.Headers {
		req.Header.Set(k, v)
	}

	if req.Header.UserAgent() == nil && userAgent != "" {
		req.Header.SetUserAgent(userAgent)
	}

	if len(f.DefaultCookies) > 0 && req.Header.Peek("Cookie") == nil {
		for k, v := range f.DefaultCookies {
			req.Header.SetCookie(k, v)
		}
	}

	if len(txn.BodyIn) > 0 {
		req.Header.SetMethod(fasthttp.MethodPost)
		req.SetBody(txn.BodyIn)
		if req.Header.ContentType() == nil {
			req.Header.SetContentType("application/x-www-form-urlencoded")
		}
	} else {
		req.Header.SetMethod(fasthttp.MethodGet)
	}

	if req.Header.Peek("Accept") == nil {
		req.Header.Set("Accept", "*/*")
	}

	u, err := url.Parse(txn.URL)
	if err != nil {
		fasthttp.ReleaseRequest(req)
		return nil, err
	}
	u.RawQuery = u.Query().Encode()
	req.SetRequestURI(u.String())

	return req, nil
}

// decodeBody follows spec.md §4.4: JSON-decoded (left as raw validated
// bytes here — callers reach for json.ParseBytesToJSON/gjson) if
// content-type contains "json", text-decoded if it contains "text", raw
// bytes otherwise. Since
// Transaction.BodyOut is already a byte slice, "decoding" JSON/text bodies
// means validating/normalizing rather than changing representation. The
// response content-type itself is not recorded on the Transaction.
func decodeBody(resp *fasthttp.Response) []byte {
	contentType := strings.ToLower(string(resp.Header.ContentType()))
	body := resp.Body()

	out := make([]byte, len(body))
	copy(out, body)

	switch {
	case strings.Contains(contentType, "json"):
		if !json.ParseBytesToJSON(out).Exists() {
			// Malformed JSON body: keep the raw bytes, let the ScrapeWorker's
			// callback decide what to do with them.
			return out
		}
		return out
	case strings.Contains(contentType, "text"):
		return out
	default:
		return out
	}
}
