/*
 * @Author:    thepoy
 * @File Name: pool.go
 */

// Package proxypool implements proxy selection with consecutive-failure
// eviction and sticky per-proxy user agents, pulled out of the crawler
// object into its own component so it can be shared across fetch workers.
package proxypool

import (
	"bufio"
	"errors"
	"math/rand"
	"os"
	"strings"
	"sync"

	"github.com/go-predator/asyncrawler/tools"
)

// ErrEmptyPool is returned by Select callers that require a proxy but the
// pool has none left.
var ErrEmptyPool = errors.New("proxypool: pool is empty")

const defaultMaxErrors = 20

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/119.0",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
}

// Pool tracks a list of normalized proxy URLs, a consecutive-failure count
// per proxy, and a memoized user agent per proxy so each presents a stable
// identity across requests.
type Pool struct {
	mu         sync.Mutex
	proxies    []string
	failures   map[string]int
	agents     map[string]string
	maxErrors  int
	defaultUA  string
}

// Option configures a Pool at construction time.
type Option func(*Pool)

// WithMaxErrors overrides the default consecutive-failure eviction
// threshold of 20.
func WithMaxErrors(n int) Option {
	return func(p *Pool) {
		p.maxErrors = n
	}
}

// New builds a Pool from an optional primary proxy and an optional list,
// both normalized by prepending "http://" when no scheme is present.
func New(primary string, list []string, opts ...Option) *Pool {
	p := &Pool{
		failures:  make(map[string]int),
		agents:    make(map[string]string),
		maxErrors: defaultMaxErrors,
	}

	if primary != "" {
		p.proxies = append(p.proxies, normalize(primary))
	}
	for _, proxyURL := range list {
		p.proxies = append(p.proxies, normalize(proxyURL))
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// NewFromFile builds a Pool from a UTF-8 text file, one proxy per line.
func NewFromFile(path string, opts ...Option) (*Pool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var list []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		list = append(list, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return New("", list, opts...), nil
}

func normalize(proxyURL string) string {
	if strings.Contains(proxyURL, "://") {
		return proxyURL
	}
	return "http://" + proxyURL
}

// Select returns a uniformly random proxy from the pool, or "", false if
// the pool is empty (meaning: connect directly).
func (p *Pool) Select(url string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.proxies) == 0 {
		return "", false
	}

	shuffled := tools.Shuffle(p.proxies)
	return shuffled[0], true
}

// NoteSuccess resets proxyURL's consecutive-failure counter to zero.
func (p *Pool) NoteSuccess(proxyURL string) {
	if proxyURL == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.failures, proxyURL)
}

// NoteFailure increments proxyURL's consecutive-failure counter and evicts
// it from the pool once it exceeds maxErrors.
func (p *Pool) NoteFailure(proxyURL string) {
	if proxyURL == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.failures[proxyURL]++
	if p.failures[proxyURL] <= p.maxErrors {
		return
	}

	for i, existing := range p.proxies {
		if existing == proxyURL {
			p.proxies = append(p.proxies[:i], p.proxies[i+1:]...)
			break
		}
	}
	delete(p.failures, proxyURL)
	delete(p.agents, proxyURL)
}

// UserAgent returns a stable random user agent for proxyURL, generating
// and memoizing one on first use. An empty proxyURL (direct connection)
// also gets a freshly generated, memoized UA under a sentinel key.
func (p *Pool) UserAgent(proxyURL string) string {
	key := proxyURL
	if key == "" {
		key = "<direct>"
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if ua, ok := p.agents[key]; ok {
		return ua
	}

	ua := userAgents[rand.Intn(len(userAgents))]
	p.agents[key] = ua
	return ua
}

// Len returns the number of proxies currently in the pool.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.proxies)
}

// Add appends a normalized proxy to the pool, used to replenish it from a
// ComplementProxyPool-style callback when it runs dry.
func (p *Pool) Add(proxyURL string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.proxies = append(p.proxies, normalize(proxyURL))
}
