/*
 * @Author:    thepoy
 * @File Name: cacheworker.go
 */

package asyncrawler

import (
	"time"

	"github.com/go-predator/asyncrawler/log"
	"github.com/go-predator/asyncrawler/queue"
	"github.com/go-predator/asyncrawler/store"
	"github.com/go-predator/asyncrawler/transaction"
)

// cacheWorker is the single goroutine spec.md §4.6 designates as the sole
// authority on "is this in the cache?", eliminating the race where two
// fetchers simultaneously miss the same URL.
type cacheWorker struct {
	store store.Store

	download *queue.Queue[*transaction.Transaction]
	cache    *queue.Queue[*transaction.Transaction]
	scrape   *queue.Queue[*transaction.Transaction]

	running *int32
	log     *log.Logger
}

func (w *cacheWorker) run() {
	for {
		txn, ok := w.cache.GetTimeout(time.Second)
		if !ok {
			if allIdle(w.download, w.cache, w.scrape) {
				return
			}
			continue
		}

		w.process(txn)
		w.cache.Done()
	}
}

func (w *cacheWorker) process(txn *transaction.Transaction) {
	defer func() {
		if r := recover(); r != nil && w.log != nil {
			w.log.Error(asError(r), log.Arg{Key: "url", Value: txn.URL})
		}
	}()

	fp := txn.Fingerprint()

	if txn.Made() {
		w.persist(fp, txn)
		return
	}

	cached, err := w.lookup(fp)
	if err != nil {
		w.download.Put(txn)
		return
	}

	cached.Merge(txn)
	if !cached.Made() || cached.IsError() {
		cached.ResetErrors()
		w.download.Put(cached)
		return
	}

	w.scrape.Put(cached)
}

func (w *cacheWorker) persist(fp string, txn *transaction.Transaction) {
	blob, err := txn.MarshalJSON()
	if err != nil {
		if w.log != nil {
			w.log.Error(err, log.Arg{Key: "fingerprint", Value: fp})
		}
		return
	}

	if err := w.store.Put(fp, blob); err != nil && w.log != nil {
		w.log.Error(err, log.Arg{Key: "fingerprint", Value: fp})
	}
}

func (w *cacheWorker) lookup(fp string) (*transaction.Transaction, error) {
	blob, _, err := w.store.Get(fp)
	if err != nil {
		return nil, err
	}

	var cached transaction.Transaction
	if err := cached.UnmarshalJSON(blob); err != nil {
		return nil, err
	}
	return &cached, nil
}
