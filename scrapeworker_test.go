/*
 * @Author:    thepoy
 * @File Name: scrapeworker_test.go
 */

package asyncrawler

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/go-predator/asyncrawler/queue"
	"github.com/go-predator/asyncrawler/seenset"
	"github.com/go-predator/asyncrawler/transaction"
)

type fakeCrawl struct {
	start     *transaction.Transaction
	writer    ResultWriter
	callbacks map[string]Callback
}

func (f *fakeCrawl) Start() *transaction.Transaction { return f.start }
func (f *fakeCrawl) Writer() ResultWriter            { return f.writer }
func (f *fakeCrawl) CallbackNamed(name string) (Callback, bool) {
	cb, ok := f.callbacks[name]
	return cb, ok
}

func newTestScrapeWorker() (*scrapeWorker, *fakeCrawl, *queue.Queue[*transaction.Transaction]) {
	crawl := &fakeCrawl{
		start:     transaction.New("https://example.com"),
		callbacks: make(map[string]Callback),
	}
	dl := queue.New[*transaction.Transaction]()
	cache := queue.New[*transaction.Transaction]()
	scrape := queue.New[*transaction.Transaction]()
	runFlag := int32(running)

	w := &scrapeWorker{
		crawl:    crawl,
		seen:     seenset.New(),
		download: dl,
		cache:    cache,
		scrape:   scrape,
		running:  &runFlag,
	}
	return w, crawl, cache
}

func TestScrapeWorkerEnqueuesUnseenChildren(t *testing.T) {
	Convey("children not already in SeenSet are pushed onto the cache queue", t, func() {
		w, crawl, cache := newTestScrapeWorker()

		crawl.callbacks["parse"] = func(txn *transaction.Transaction) []*transaction.Transaction {
			return []*transaction.Transaction{
				transaction.New("https://example.com/b"),
				transaction.New("https://example.com/c"),
			}
		}

		parent := transaction.New("https://example.com/a")
		parent.CallbackName = "parse"

		w.process(parent)

		So(cache.Len(), ShouldEqual, 2)
	})
}

func TestScrapeWorkerDedupesChildren(t *testing.T) {
	Convey("two callbacks yielding the same child enqueue it only once", t, func() {
		w, crawl, cache := newTestScrapeWorker()

		crawl.callbacks["parse"] = func(txn *transaction.Transaction) []*transaction.Transaction {
			return []*transaction.Transaction{transaction.New("https://example.com/b")}
		}

		a := transaction.New("https://example.com/a")
		a.CallbackName = "parse"
		b := transaction.New("https://example.com/also-a")
		b.CallbackName = "parse"

		w.process(a)
		w.process(b)

		So(cache.Len(), ShouldEqual, 1)
	})
}

func TestScrapeWorkerSkipsTransactionWithoutCallback(t *testing.T) {
	Convey("a Transaction with no callback name is a no-op", t, func() {
		w, _, cache := newTestScrapeWorker()

		w.process(transaction.New("https://example.com/no-callback"))

		So(cache.Len(), ShouldEqual, 0)
	})
}

func TestScrapeWorkerRecoversFromCallbackPanic(t *testing.T) {
	Convey("a panicking callback is recovered and its children are lost, not propagated", t, func() {
		w, crawl, cache := newTestScrapeWorker()

		crawl.callbacks["boom"] = func(txn *transaction.Transaction) []*transaction.Transaction {
			panic("parse error")
		}

		txn := transaction.New("https://example.com/a")
		txn.CallbackName = "boom"

		So(func() { w.process(txn) }, ShouldNotPanic)
		So(cache.Len(), ShouldEqual, 0)
	})
}
