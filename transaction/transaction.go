/*
 * @Author:    thepoy
 * @File Name: transaction.go
 */

// Package transaction defines the unit of work that flows through the
// asyncrawler pipeline: a request description plus whatever response state
// has accumulated so far.
package transaction

import (
	"crypto/md5"
	"fmt"
	"math/big"
	"net/url"
	"sort"
	"strings"
	"sync/atomic"

	jsoniter "github.com/json-iterator/go"

	pctx "github.com/go-predator/asyncrawler/context"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StatusLocalFailure is the synthetic status code a Fetcher assigns when a
// transport error prevents the request from ever reaching the server.
const StatusLocalFailure = 512

// Transaction is the request/response unit passed through the download,
// cache and scrape queues.
type Transaction struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
	// BodyIn is the request body. Its absence means GET, its presence POST.
	BodyIn []byte `json:"body_in,omitempty"`
	// Status is the HTTP status code, 0 meaning "not yet attempted".
	Status uint16 `json:"status"`
	// BodyOut is the decoded response body.
	BodyOut []byte `json:"body_out,omitempty"`
	// NumErrors counts failed attempts so far.
	NumErrors uint32 `json:"num_errors"`
	// CallbackName names a registered UserCrawl callback to invoke once
	// this Transaction completes a fetch.
	CallbackName string `json:"callback_name,omitempty"`

	// Ctx carries an open set of user annotation fields verbatim through
	// the pipeline; it is not part of the fingerprint.
	Ctx pctx.Context `json:"-"`

	// CacheFields, if non-empty, narrows the fingerprint to a specific
	// subset of query or body parameters instead of the whole URL+body,
	// for POST endpoints whose full body isn't a stable cache key (e.g. a
	// timestamp or nonce field alongside the parameters that actually
	// identify the resource). Not round-tripped through JSON: a Transaction
	// reconstructed from the store or a queue snapshot is either already
	// complete (no further lookup needed) or freshly resubmitted by user
	// code, which sets CacheFields again if it wants this behavior.
	CacheFields []CacheField `json:"-"`

	retryCounter uint32
}

type cacheFieldKind uint8

const (
	queryParamField cacheFieldKind = iota
	requestBodyParamField
)

// CacheField narrows Transaction.Fingerprint to a named query or
// form-body parameter.
type CacheField struct {
	kind    cacheFieldKind
	Field   string
	prepare func(string) string
}

func (cf CacheField) key() string {
	return fmt.Sprintf("%d-%s", cf.kind, cf.Field)
}

// NewQueryParamField selects a URL query parameter as a cache field.
func NewQueryParamField(field string) CacheField {
	return CacheField{kind: queryParamField, Field: field}
}

// NewQueryParamFieldWithPrepare is NewQueryParamField with a normalizer
// applied to the extracted value before it enters the fingerprint (e.g.
// lowercasing, trimming a volatile suffix).
func NewQueryParamFieldWithPrepare(field string, prepare func(string) string) CacheField {
	return CacheField{kind: queryParamField, Field: field, prepare: prepare}
}

// NewRequestBodyParamField selects a form-encoded request body parameter
// as a cache field.
func NewRequestBodyParamField(field string) CacheField {
	return CacheField{kind: requestBodyParamField, Field: field}
}

// NewRequestBodyParamFieldWithPrepare is NewRequestBodyParamField with a
// normalizer applied to the extracted value.
func NewRequestBodyParamFieldWithPrepare(field string, prepare func(string) string) CacheField {
	return CacheField{kind: requestBodyParamField, Field: field, prepare: prepare}
}

// New creates a GET Transaction.
func New(url string) *Transaction {
	return &Transaction{URL: url}
}

// NewWithHeaders creates a GET Transaction carrying the given headers.
func NewWithHeaders(url string, headers map[string]string) *Transaction {
	return &Transaction{URL: url, Headers: headers}
}

// NewPost creates a POST Transaction with a pre-built body.
func NewPost(url string, body []byte, headers map[string]string) *Transaction {
	return &Transaction{URL: url, BodyIn: body, Headers: headers}
}

// Made reports whether a network attempt has completed for this Transaction.
func (t *Transaction) Made() bool {
	return t.Status != 0
}

// IsError reports whether the Transaction's completed status counts as a
// failure (status >= 400, including the synthetic local-failure code).
func (t *Transaction) IsError() bool {
	return t.Status >= 400
}

// nonRetryable reports whether the status is a 4xx client error, which is
// never worth retrying.
func (t *Transaction) nonRetryable() bool {
	return t.Status >= 400 && t.Status < 500
}

// CanRetry reports whether another attempt is allowed: the error budget
// isn't exhausted and the failure isn't a non-retryable 4xx.
func (t *Transaction) CanRetry(max uint32) bool {
	return t.NumErrors < max && !t.nonRetryable()
}

// IncrErrors atomically increments the error counter, used by workers that
// may touch a Transaction from more than one goroutine during a retry race.
func (t *Transaction) IncrErrors() {
	atomic.AddUint32(&t.NumErrors, 1)
}

// ResetErrors zeroes the error counter, used by the CacheWorker when it
// decides a stale or errored cache hit is worth revalidating from scratch.
func (t *Transaction) ResetErrors() {
	atomic.StoreUint32(&t.NumErrors, 0)
}

// Merge overlays every non-empty field of other onto t, used to carry a
// pending lookup's callback name onto a cache hit.
func (t *Transaction) Merge(other *Transaction) {
	if other == nil {
		return
	}
	if other.URL != "" {
		t.URL = other.URL
	}
	if len(other.BodyIn) > 0 {
		t.BodyIn = other.BodyIn
	}
	if other.Status != 0 {
		t.Status = other.Status
	}
	if len(other.BodyOut) > 0 {
		t.BodyOut = other.BodyOut
	}
	if other.NumErrors != 0 {
		t.NumErrors = other.NumErrors
	}
	if other.CallbackName != "" {
		t.CallbackName = other.CallbackName
	}
	if len(other.Headers) > 0 {
		if t.Headers == nil {
			t.Headers = make(map[string]string, len(other.Headers))
		}
		for k, v := range other.Headers {
			t.Headers[k] = v
		}
	}
	if other.Ctx != nil {
		if t.Ctx == nil {
			t.Ctx = other.Ctx
		} else {
			other.Ctx.ForEach(func(key string, val interface{}) interface{} {
				t.Ctx.Put(key, val)
				return nil
			})
		}
	}
}

// Fingerprint is the decimal string form of the MD5 digest of the
// Transaction's request identity (url, headers, body). It is deterministic
// across processes and deliberately excludes response state, so a re-fetch
// maps to the same cache key. When CacheFields is set, the identity narrows
// to just the named query/body parameters instead of the full url+body.
func (t *Transaction) Fingerprint() string {
	if len(t.CacheFields) > 0 {
		return cacheFieldFingerprint(t.URL, t.BodyIn, t.CacheFields)
	}
	return fingerprint(t.URL, t.Headers, t.BodyIn)
}

func cacheFieldFingerprint(rawURL string, body []byte, fields []CacheField) string {
	var queryParams url.Values
	bodyParams, _ := url.ParseQuery(string(body))

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		var val string
		switch f.kind {
		case queryParamField:
			if queryParams == nil {
				if u, err := url.Parse(rawURL); err == nil {
					queryParams = u.Query()
				} else {
					queryParams = url.Values{}
				}
			}
			val = queryParams.Get(f.Field)
		case requestBodyParamField:
			val = bodyParams.Get(f.Field)
		}
		if f.prepare != nil {
			val = f.prepare(val)
		}
		parts = append(parts, f.key()+"="+val)
	}
	sort.Strings(parts)

	sum := md5.Sum([]byte(strings.Join(parts, "&")))
	n := new(big.Int).SetBytes(sum[:])
	return n.String()
}

func fingerprint(url string, headers map[string]string, body []byte) string {
	var s strings.Builder
	s.WriteString(url)
	s.WriteByte(' ')
	s.WriteString(sortedHeaders(headers))
	s.WriteByte(' ')
	s.Write(body)

	sum := md5.Sum([]byte(s.String()))
	n := new(big.Int).SetBytes(sum[:])
	return n.String()
}

func sortedHeaders(headers map[string]string) string {
	if len(headers) == 0 {
		return ""
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var s strings.Builder
	for i, k := range keys {
		if i > 0 {
			s.WriteByte('&')
		}
		fmt.Fprintf(&s, "%s=%s", k, headers[k])
	}
	return s.String()
}

// jsonShadow mirrors Transaction's persisted fields plus a flattened
// snapshot of Ctx, used to round-trip through the persistent store without
// exposing the internal pctx.Context interface to json-iterator directly.
type jsonShadow struct {
	URL          string            `json:"url"`
	Headers      map[string]string `json:"headers,omitempty"`
	BodyIn       []byte            `json:"body_in,omitempty"`
	Status       uint16            `json:"status"`
	BodyOut      []byte            `json:"body_out,omitempty"`
	NumErrors    uint32            `json:"num_errors"`
	CallbackName string            `json:"callback_name,omitempty"`
	Ctx          map[string]interface{} `json:"ctx,omitempty"`
}

// MarshalJSON flattens Ctx (backed by the context package's write-optimized
// implementation) into a plain map so Transactions are ordinarily
// serializable for the persistent store and queue snapshots.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	shadow := jsonShadow{
		URL:          t.URL,
		Headers:      t.Headers,
		BodyIn:       t.BodyIn,
		Status:       t.Status,
		BodyOut:      t.BodyOut,
		NumErrors:    t.NumErrors,
		CallbackName: t.CallbackName,
	}
	if t.Ctx != nil && t.Ctx.Length() > 0 {
		shadow.Ctx = make(map[string]interface{}, t.Ctx.Length())
		t.Ctx.ForEach(func(key string, val interface{}) interface{} {
			shadow.Ctx[key] = val
			return nil
		})
	}
	return json.Marshal(shadow)
}

// UnmarshalJSON reconstructs Transaction, rebuilding Ctx via pctx.NewContext
// so the annotation bag behaves identically to a freshly created one.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var shadow jsonShadow
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}

	t.URL = shadow.URL
	t.Headers = shadow.Headers
	t.BodyIn = shadow.BodyIn
	t.Status = shadow.Status
	t.BodyOut = shadow.BodyOut
	t.NumErrors = shadow.NumErrors
	t.CallbackName = shadow.CallbackName

	if len(shadow.Ctx) > 0 {
		ctx, err := pctx.NewContext(pctx.WriteOp)
		if err != nil {
			return err
		}
		for k, v := range shadow.Ctx {
			ctx.Put(k, v)
		}
		t.Ctx = ctx
	}

	return nil
}
