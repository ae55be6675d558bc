/*
 * @Author:    thepoy
 * @File Name: main.go
 */

// Command asyncrawler is a minimal example entrypoint wiring a UserCrawl
// that scrapes link targets out of HTML pages into the Orchestrator.
// Flag parsing and the result writer are both out of core per spec.md §1;
// this file is the glue a real user program would write.
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	asyncrawler "github.com/go-predator/asyncrawler"
	ahtml "github.com/go-predator/asyncrawler/html"
	"github.com/go-predator/asyncrawler/log"
	"github.com/go-predator/asyncrawler/transaction"
	"github.com/go-predator/asyncrawler/writer"
)

var (
	seedURL     = flag.String("seed", "", "seed URL to start crawling from")
	queueMode   = flag.Bool("queue", false, "resume from and save a queue snapshot across runs")
	debug       = flag.Bool("debug", false, "raise log verbosity")
	concurrency = flag.Int("concurrency", 8, "number of concurrent fetcher goroutines")
	out         = flag.String("out", "out.csv", "result CSV path")
)

type linkCrawl struct {
	start  *transaction.Transaction
	writer *writer.CSVWriter
}

func (c *linkCrawl) Start() *transaction.Transaction { return c.start }
func (c *linkCrawl) Writer() asyncrawler.ResultWriter { return c.writer }

func (c *linkCrawl) CallbackNamed(name string) (asyncrawler.Callback, bool) {
	if name != "parseLinks" {
		return nil, false
	}
	return c.parseLinks, true
}

// parseLinks records the page's own URL as a result row and yields every
// non-empty anchor href on the page as a child Transaction, duplicates
// included (the scrape worker's SeenSet drops repeats).
func (c *linkCrawl) parseLinks(txn *transaction.Transaction) []*transaction.Transaction {
	c.writer.WriteRow([]string{txn.URL, fmt.Sprintf("%d", txn.Status)})

	if txn.Status != 200 {
		return nil
	}

	doc, err := ahtml.ParseHTML(txn.BodyOut)
	if err != nil {
		return nil
	}
	root := &ahtml.HTMLElement{DOM: doc.Selection}

	var children []*transaction.Transaction
	root.Each("a[href]", func(_ int, a *ahtml.HTMLElement) bool {
		href := a.Attr("href")
		if href == "" {
			return false
		}
		child := transaction.New(href)
		child.CallbackName = "parseLinks"
		children = append(children, child)
		return false
	})
	return children
}

func main() {
	flag.Parse()

	if *seedURL == "" {
		fmt.Fprintln(os.Stderr, "asyncrawler: -seed is required")
		os.Exit(2)
	}

	w := writer.New(*out)
	if err := w.Open(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer w.Close()

	start := transaction.New(*seedURL)
	start.CallbackName = "parseLinks"

	crawl := &linkCrawl{start: start, writer: w}

	opts := []asyncrawler.OrchestratorOption{
		asyncrawler.WithConcurrency(*concurrency),
	}
	if *queueMode {
		opts = append(opts, asyncrawler.WithQueueMode())
	}
	if *debug {
		opts = append(opts, asyncrawler.WithDebugLogger())
	} else {
		opts = append(opts, asyncrawler.WithLogger(log.NewLogger(log.WARNING, log.ToConsole())))
	}

	orch, err := asyncrawler.New(crawl, opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := orch.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
