/*
 * @Author:    thepoy
 * @File Name: crawlerworker.go
 */

package asyncrawler

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-predator/asyncrawler/fetcher"
	"github.com/go-predator/asyncrawler/log"
	"github.com/go-predator/asyncrawler/proxypool"
	"github.com/go-predator/asyncrawler/queue"
	"github.com/go-predator/asyncrawler/transaction"
)

// crawlerWorker is one of the N fetcher slots spec.md §4.5 describes. It
// pulls from the download queue, fetches, and routes the result onward.
// Several run concurrently, each a goroutine, sharing one *fetcher.Fetcher
// and one *proxypool.Pool (both internally synchronized).
type crawlerWorker struct {
	id int

	fetcher    *fetcher.Fetcher
	proxies    *proxypool.Pool
	maxRetries uint32
	timeout    time.Duration

	download *queue.Queue[*transaction.Transaction]
	cache    *queue.Queue[*transaction.Transaction]
	scrape   *queue.Queue[*transaction.Transaction]

	running *int32
	log     *log.Logger
}

func (w *crawlerWorker) run() {
	for {
		txn, ok := w.download.GetTimeout(time.Second)
		if !ok {
			if allIdle(w.download, w.cache, w.scrape) {
				return
			}
			continue
		}

		w.process(txn)
		w.download.Done()
	}
}

// process implements spec.md §4.5's branching: a fresh or retryable
// Transaction is fetched and routed on the outcome; a Transaction that has
// already failed non-retryably is persisted as-is and never scraped. Once
// shutdown has been requested (running cleared), a failed fetch is
// persisted rather than re-queued for retry, so the download queue can
// still drain toward the joint-idle condition instead of retrying forever.
func (w *crawlerWorker) process(txn *transaction.Transaction) {
	defer func() {
		if r := recover(); r != nil && w.log != nil {
			w.log.Error(asError(r), log.Arg{Key: "url", Value: txn.URL})
		}
	}()

	if txn.Made() && !txn.CanRetry(w.maxRetries) {
		w.cache.Put(txn)
		return
	}

	w.fetchOnce(txn)

	if txn.IsError() && atomic.LoadInt32(w.running) != 0 {
		txn.IncrErrors()
		w.download.Put(txn)
		return
	}

	w.cache.Put(txn)
	w.scrape.Put(txn)
}

func (w *crawlerWorker) fetchOnce(txn *transaction.Transaction) {
	var proxyURL string
	var hasProxy bool
	if w.proxies != nil {
		proxyURL, hasProxy = w.proxies.Select(txn.URL)
	}

	ua := ""
	if w.proxies != nil {
		ua = w.proxies.UserAgent(proxyURL)
	}

	err := w.fetcher.Fetch(txn, proxyURL, ua, w.timeout)

	if hasProxy {
		if err != nil {
			w.proxies.NoteFailure(proxyURL)
		} else {
			w.proxies.NoteSuccess(proxyURL)
		}
	}
}

func asError(r interface{}) error {
	if e, ok := r.(error); ok {
		return e
	}
	return fmt.Errorf("asyncrawler: worker panic recovered: %v", r)
}
