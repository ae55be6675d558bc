/*
 * @Author:    thepoy
 * @File Name: orchestrator.go
 */

package asyncrawler

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-predator/asyncrawler/fetcher"
	"github.com/go-predator/asyncrawler/log"
	"github.com/go-predator/asyncrawler/proxypool"
	"github.com/go-predator/asyncrawler/queue"
	"github.com/go-predator/asyncrawler/seenset"
	"github.com/go-predator/asyncrawler/store"
	"github.com/go-predator/asyncrawler/transaction"
	"github.com/go-predator/asyncrawler/workerpool"
)

const (
	running = 1
	stopped = 0
)

const defaultTimeout = 60 * time.Second

// Orchestrator wires the three queues, the store, the proxy pool and the
// pipeline's workers together, and drives the whole crawl per spec.md §4.8.
type Orchestrator struct {
	log *log.Logger

	concurrency int
	maxRetries  uint32
	timeout     time.Duration

	skipVerification bool
	enableIPv6       bool
	cookies          map[string]string

	proxies *proxypool.Pool
	store   store.Store
	// ownsStore is set when New opened the default store itself rather
	// than receiving one via WithStore; only then does Run close it, so a
	// caller-supplied store survives Run to be reused or closed by the
	// caller.
	ownsStore bool
	// cacheTTL and commitInterval configure the default store when New
	// opens one itself; WithStore bypasses both.
	cacheTTL       time.Duration
	commitInterval int

	queueMode bool

	crawl UserCrawl

	download *queue.Queue[*transaction.Transaction]
	cache    *queue.Queue[*transaction.Transaction]
	scrape   *queue.Queue[*transaction.Transaction]
	seen     *seenset.SeenSet

	runFlag int32
}

// New constructs an Orchestrator for crawl, applying opts over the
// spec-named defaults: concurrency defaults to 4, max_retries defaults to
// 1, fetch timeout defaults to 60s.
func New(crawl UserCrawl, opts ...OrchestratorOption) (*Orchestrator, error) {
	if crawl == nil {
		return nil, ErrNoUserCrawl
	}

	o := &Orchestrator{
		concurrency: 4,
		maxRetries:  1,
		timeout:     defaultTimeout,
		crawl:       crawl,
		download:    queue.New[*transaction.Transaction](),
		cache:       queue.New[*transaction.Transaction](),
		scrape:      queue.New[*transaction.Transaction](),
		seen:        seenset.New(),
		runFlag:     running,
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.concurrency <= 0 {
		return nil, ErrInvalidPoolCap
	}

	if o.store == nil {
		dir, err := stateDir()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoStore, err)
		}
		s, err := store.NewSQLite(filepath.Join(dir, "cache.db"), store.Options{
			Expires:       o.cacheTTL,
			MaxOperations: o.commitInterval,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoStore, err)
		}
		o.store = s
		o.ownsStore = true
	}

	return o, nil
}

// Run executes the crawl to completion: it seeds or restores the queues,
// spawns the worker pool, awaits the joint-termination condition (a first
// SIGINT stops new work from being produced but does not end the wait),
// and saves or clears the snapshot on the way out.
func (o *Orchestrator) Run() error {
	restored := false
	if o.queueMode {
		var err error
		restored, err = loadQueue(o.store, o.download, o.scrape)
		if err != nil && o.log != nil {
			o.log.Error(err)
		}
	}

	if !restored {
		start := o.crawl.Start()
		o.seen.Add(start.Fingerprint())
		o.cache.Put(start)
	}

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go o.watchSignals(sigCh)

	group := workerpool.New(o.log)

	f := fetcher.New(o.log)
	f.SkipVerification = o.skipVerification
	f.EnableIPv6 = o.enableIPv6
	f.DefaultCookies = o.cookies

	for i := 0; i < o.concurrency; i++ {
		w := &crawlerWorker{
			id:         i,
			fetcher:    f,
			proxies:    o.proxies,
			maxRetries: o.maxRetries,
			timeout:    o.timeout,
			download:   o.download,
			cache:      o.cache,
			scrape:     o.scrape,
			running:    &o.runFlag,
			log:        o.log,
		}
		group.Go(w.run)
	}

	cw := &cacheWorker{
		store:    o.store,
		download: o.download,
		cache:    o.cache,
		scrape:   o.scrape,
		running:  &o.runFlag,
		log:      o.log,
	}
	group.Go(cw.run)

	sw := &scrapeWorker{
		crawl:    o.crawl,
		seen:     o.seen,
		download: o.download,
		cache:    o.cache,
		scrape:   o.scrape,
		running:  &o.runFlag,
		log:      o.log,
	}
	group.Go(sw.run)

	group.Wait()

	var err error
	if o.queueMode {
		err = saveQueue(o.store, o.download, o.scrape)
	} else {
		err = clearQueue(o.store)
	}

	// spec.md §4.2/§5: the store is committed by the orchestrator at
	// shutdown, not left to the next MaxOperations-th write.
	if commitErr := o.store.Commit(); err == nil {
		err = commitErr
	} else if o.log != nil && commitErr != nil {
		o.log.Error(commitErr)
	}

	if o.ownsStore {
		if closeErr := o.store.Close(); err == nil {
			err = closeErr
		} else if o.log != nil && closeErr != nil {
			o.log.Error(closeErr)
		}
	}

	return err
}

func (o *Orchestrator) watchSignals(sigCh chan os.Signal) {
	for range sigCh {
		if atomic.CompareAndSwapInt32(&o.runFlag, running, stopped) {
			if o.log != nil {
				o.log.Warning("received interrupt, shutting down gracefully — interrupt again to force-kill")
			}
			continue
		}
		// A second interrupt has no caller left to return an error to.
		fatalOrPanic(o.log, errors.New("second interrupt received, force-killing"))
	}
}

// fatalOrPanic ends the process for a condition with no caller to return
// an error to: it logs through Logger.Fatal and exits if a logger is
// attached, or panics otherwise. Logger.Fatal itself only logs at ERROR without
// exiting, so this calls os.Exit explicitly once it has logged.
func fatalOrPanic(logger *log.Logger, err error) {
	if logger != nil {
		logger.Fatal(err)
		os.Exit(1)
		return
	}
	panic(err)
}

// allIdle reports the joint termination condition spec.md §4.10 requires:
// all three queues simultaneously empty and with no in-flight items.
func allIdle(download, cache, scrape *queue.Queue[*transaction.Transaction]) bool {
	return download.Idle() && cache.Idle() && scrape.Idle()
}

// stateDir returns the hidden ".<script-name>/" directory co-located with
// the running binary, spec.md §6's filesystem layout, creating it if
// necessary.
func stateDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(filepath.Dir(exe), "."+filepath.Base(exe))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
