/*
 * @Author:    thepoy
 * @File Name: orchestrator_test.go
 */

package asyncrawler

import (
	"fmt"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/valyala/fasthttp"

	"github.com/go-predator/asyncrawler/store"
	"github.com/go-predator/asyncrawler/transaction"
)

// startTestServer serves two pages on a real loopback listener: "/a" links
// to "/b", "/b" has no further links. It returns the base URL and a closer.
func startTestServer(t *testing.T) (string, func()) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	srv := &fasthttp.Server{
		Handler: func(ctx *fasthttp.RequestCtx) {
			switch string(ctx.Path()) {
			case "/a":
				ctx.SetContentType("text/html")
				ctx.SetStatusCode(200)
				ctx.SetBodyString(`<html><body><a href="/b">next</a></body></html>`)
			case "/b":
				ctx.SetContentType("text/html")
				ctx.SetStatusCode(200)
				ctx.SetBodyString(`<html><body>no links here</body></html>`)
			default:
				ctx.SetStatusCode(404)
			}
		},
	}
	go srv.Serve(ln)

	base := fmt.Sprintf("http://%s", ln.Addr().String())
	return base, func() { ln.Close() }
}

type recordingWriter struct {
	mu   sync.Mutex
	rows [][]string
}

func (w *recordingWriter) Mode() string { return "w" }
func (w *recordingWriter) WriteRow(record []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rows = append(w.rows, record)
	return nil
}

func (w *recordingWriter) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.rows)
}

func TestOrchestratorRunCrawlsTwoLinkedPages(t *testing.T) {
	Convey("a two-page crawl fetches both pages, persists both, and reaches natural termination", t, func() {
		base, closeSrv := startTestServer(t)
		defer closeSrv()

		s := newTestStore(t)
		defer s.Close()

		rw := &recordingWriter{}
		crawl := &fakeCrawl{
			start:     transaction.New(base + "/a"),
			writer:    rw,
			callbacks: make(map[string]Callback),
		}
		crawl.start.CallbackName = "record"
		crawl.callbacks["record"] = func(txn *transaction.Transaction) []*transaction.Transaction {
			rw.WriteRow([]string{txn.URL, fmt.Sprintf("%d", txn.Status)})
			if txn.URL == base+"/a" {
				child := transaction.New(base + "/b")
				child.CallbackName = "record"
				return []*transaction.Transaction{child}
			}
			return nil
		}

		orch, err := New(crawl, WithStore(s), WithConcurrency(2), WithTimeout(2*time.Second))
		So(err, ShouldBeNil)

		done := make(chan error, 1)
		go func() { done <- orch.Run() }()

		select {
		case err := <-done:
			So(err, ShouldBeNil)
		case <-time.After(10 * time.Second):
			t.Fatal("orchestrator.Run did not terminate on its own")
		}

		So(rw.count(), ShouldEqual, 2)

		seedFP := transaction.New(base + "/a").Fingerprint()
		_, _, err = s.Get(seedFP)
		So(err, ShouldBeNil)

		childFP := transaction.New(base + "/b").Fingerprint()
		_, _, err = s.Get(childFP)
		So(err, ShouldBeNil)
	})
}

func TestOrchestratorRunCommitsToStoreFileBeforeExiting(t *testing.T) {
	Convey("a crawl well under the commit-interval default still lands on disk by the time Run returns", t, func() {
		base, closeSrv := startTestServer(t)
		defer closeSrv()

		path := filepath.Join(t.TempDir(), "cache.sqlite")
		s, err := store.NewSQLite(path, store.Options{})
		So(err, ShouldBeNil)

		crawl := &fakeCrawl{
			start:     transaction.New(base + "/a"),
			writer:    &recordingWriter{},
			callbacks: make(map[string]Callback),
		}
		crawl.start.CallbackName = "record"
		crawl.callbacks["record"] = func(txn *transaction.Transaction) []*transaction.Transaction {
			return nil
		}

		orch, err := New(crawl, WithStore(s), WithConcurrency(1), WithTimeout(2*time.Second))
		So(err, ShouldBeNil)

		done := make(chan error, 1)
		go func() { done <- orch.Run() }()

		select {
		case err := <-done:
			So(err, ShouldBeNil)
		case <-time.After(10 * time.Second):
			t.Fatal("orchestrator.Run did not terminate on its own")
		}

		// WithStore means Run never closes s, but it must still have
		// committed its buffered write — open a second, independent
		// handle onto the same file with a cold in-memory buffer, so a
		// successful Get here can only be satisfied from disk.
		s2, err := store.NewSQLite(path, store.Options{})
		So(err, ShouldBeNil)
		defer s2.Close()

		seedFP := transaction.New(base + "/a").Fingerprint()
		_, _, err = s2.Get(seedFP)
		So(err, ShouldBeNil)
	})
}

func TestOrchestratorRunWithEmptyStartShutsDownCleanly(t *testing.T) {
	Convey("a start page with no callback still terminates cleanly", t, func() {
		base, closeSrv := startTestServer(t)
		defer closeSrv()

		s := newTestStore(t)
		defer s.Close()

		crawl := &fakeCrawl{
			start:     transaction.New(base + "/b"),
			writer:    &recordingWriter{},
			callbacks: make(map[string]Callback),
		}

		orch, err := New(crawl, WithStore(s), WithConcurrency(1), WithTimeout(2*time.Second))
		So(err, ShouldBeNil)

		done := make(chan error, 1)
		go func() { done <- orch.Run() }()

		select {
		case err := <-done:
			So(err, ShouldBeNil)
		case <-time.After(10 * time.Second):
			t.Fatal("orchestrator.Run did not terminate on its own")
		}
	})
}
