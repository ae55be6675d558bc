/*
 * @Author:    thepoy
 * @File Name: queue_test.go
 */

package queue

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLIFOOrder(t *testing.T) {
	Convey("Get pops in LIFO order", t, func() {
		q := New[int]()
		q.Put(1)
		q.Put(2)
		q.Put(3)

		So(q.Get(), ShouldEqual, 3)
		So(q.Get(), ShouldEqual, 2)
		So(q.Get(), ShouldEqual, 1)
	})
}

func TestUnfinishedTracking(t *testing.T) {
	Convey("Idle is false until every Put is matched by a Done", t, func() {
		q := New[string]()
		So(q.Idle(), ShouldBeTrue)

		q.Put("a")
		So(q.Idle(), ShouldBeFalse)

		item := q.Get()
		So(item, ShouldEqual, "a")
		So(q.Idle(), ShouldBeFalse)

		q.Done()
		So(q.Idle(), ShouldBeTrue)
	})
}

func TestGetTimeout(t *testing.T) {
	Convey("GetTimeout returns ok=false when nothing arrives in time", t, func() {
		q := New[int]()
		_, ok := q.GetTimeout(20 * time.Millisecond)
		So(ok, ShouldBeFalse)
	})

	Convey("GetTimeout returns the item if one is Put before the deadline", t, func() {
		q := New[int]()
		go func() {
			time.Sleep(5 * time.Millisecond)
			q.Put(42)
		}()

		item, ok := q.GetTimeout(200 * time.Millisecond)
		So(ok, ShouldBeTrue)
		So(item, ShouldEqual, 42)
	})
}

func TestDrainAndRestore(t *testing.T) {
	Convey("DrainAll empties the buffer without touching unfinished count", t, func() {
		q := New[int]()
		q.Put(1)
		q.Put(2)

		drained := q.DrainAll()
		So(drained, ShouldResemble, []int{1, 2})
		So(q.Len(), ShouldEqual, 0)
		So(q.Unfinished(), ShouldEqual, 2)
	})

	Convey("RestoreAll pushes items back and counts them as unfinished", t, func() {
		q := New[int]()
		q.RestoreAll([]int{1, 2, 3})

		So(q.Len(), ShouldEqual, 3)
		So(q.Unfinished(), ShouldEqual, 3)
	})
}
