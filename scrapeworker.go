/*
 * @Author:    thepoy
 * @File Name: scrapeworker.go
 */

package asyncrawler

import (
	"sync/atomic"
	"time"

	"github.com/go-predator/asyncrawler/log"
	"github.com/go-predator/asyncrawler/queue"
	"github.com/go-predator/asyncrawler/seenset"
	"github.com/go-predator/asyncrawler/transaction"
)

// scrapeWorker is the single goroutine spec.md §4.7 designates to run user
// callbacks and dedupe the children they yield. Single-owner of SeenSet, so
// SeenSet needs no internal locking (see seenset package).
type scrapeWorker struct {
	crawl UserCrawl
	seen  *seenset.SeenSet

	download *queue.Queue[*transaction.Transaction]
	cache    *queue.Queue[*transaction.Transaction]
	scrape   *queue.Queue[*transaction.Transaction]

	running *int32
	log     *log.Logger
}

func (w *scrapeWorker) run() {
	for {
		txn, ok := w.scrape.GetTimeout(time.Second)
		if !ok {
			if allIdle(w.download, w.cache, w.scrape) {
				return
			}
			continue
		}

		w.process(txn)
		w.scrape.Done()
	}
}

func (w *scrapeWorker) process(txn *transaction.Transaction) {
	defer func() {
		if r := recover(); r != nil && w.log != nil {
			// A callback panic is a caught exception per spec.md §7: logged,
			// processing continues, the children it would have yielded are
			// lost.
			w.log.Error(asError(r), log.Arg{Key: "url", Value: txn.URL})
		}
	}()

	if txn.CallbackName == "" {
		return
	}

	cb, ok := w.crawl.CallbackNamed(txn.CallbackName)
	if !ok {
		if w.log != nil {
			w.log.Warning("no callback registered", log.Arg{Key: "name", Value: txn.CallbackName})
		}
		return
	}

	children := cb(txn)
	if atomic.LoadInt32(w.running) == 0 {
		// Graceful shutdown in progress: stop feeding new work into the
		// pipeline so the queues can actually reach the joint-idle state.
		return
	}

	for _, child := range children {
		fp := child.Fingerprint()
		if w.seen.Add(fp) {
			w.cache.Put(child)
		}
	}
}
