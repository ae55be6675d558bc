/*
 * @Author:    thepoy
 * @File Name: snapshot_test.go
 */

package asyncrawler

import (
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/go-predator/asyncrawler/queue"
	"github.com/go-predator/asyncrawler/store"
	"github.com/go-predator/asyncrawler/transaction"
)

func newTestStore(t *testing.T) store.Store {
	path := filepath.Join(t.TempDir(), "cache.sqlite")
	s, err := store.NewSQLite(path, store.Options{MaxOperations: 1})
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	return s
}

func TestSaveLoadClearQueue(t *testing.T) {
	Convey("save_queue followed by load_queue restores both queues", t, func() {
		s := newTestStore(t)
		defer s.Close()

		dl := queue.New[*transaction.Transaction]()
		scrape := queue.New[*transaction.Transaction]()

		dl.Put(transaction.New("https://example.com/a"))
		dl.Put(transaction.New("https://example.com/b"))
		scrape.Put(transaction.New("https://example.com/c"))

		So(saveQueue(s, dl, scrape), ShouldBeNil)
		So(dl.Len(), ShouldEqual, 0)
		So(scrape.Len(), ShouldEqual, 0)

		dl2 := queue.New[*transaction.Transaction]()
		scrape2 := queue.New[*transaction.Transaction]()

		restored, err := loadQueue(s, dl2, scrape2)
		So(err, ShouldBeNil)
		So(restored, ShouldBeTrue)
		So(dl2.Len(), ShouldEqual, 2)
		So(scrape2.Len(), ShouldEqual, 1)

		So(clearQueue(s), ShouldBeNil)

		dl3 := queue.New[*transaction.Transaction]()
		scrape3 := queue.New[*transaction.Transaction]()
		restored, err = loadQueue(s, dl3, scrape3)
		So(err, ShouldBeNil)
		So(restored, ShouldBeFalse)
	})
}

func TestAllIdle(t *testing.T) {
	Convey("allIdle is true only when every queue is empty and has no in-flight items", t, func() {
		dl := queue.New[*transaction.Transaction]()
		cache := queue.New[*transaction.Transaction]()
		scrape := queue.New[*transaction.Transaction]()

		So(allIdle(dl, cache, scrape), ShouldBeTrue)

		dl.Put(transaction.New("https://example.com"))
		So(allIdle(dl, cache, scrape), ShouldBeFalse)

		dl.Get()
		So(allIdle(dl, cache, scrape), ShouldBeFalse)

		dl.Done()
		So(allIdle(dl, cache, scrape), ShouldBeTrue)
	})
}
