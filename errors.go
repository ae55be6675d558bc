/*
 * @Author:    thepoy
 * @File Name: errors.go
 */

package asyncrawler

import "errors"

var (
	// ErrInvalidPoolCap is returned by New when Concurrency <= 0.
	ErrInvalidPoolCap = errors.New("asyncrawler: invalid worker pool capacity")
	// ErrEmptyProxyPool names a proxy pool with no proxies in it. Neither
	// New nor Run returns it: with an empty pool, fetches connect directly.
	ErrEmptyProxyPool = errors.New("asyncrawler: proxy pool is empty")
	// ErrNoStore is wrapped into the error New returns when no store is
	// configured and a default one cannot be opened.
	ErrNoStore = errors.New("asyncrawler: no persistent store configured")
	// ErrNoUserCrawl is returned by New when no UserCrawl was supplied.
	ErrNoUserCrawl = errors.New("asyncrawler: no user crawl supplied")
)
