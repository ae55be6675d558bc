/*
 * @Author:    thepoy
 * @File Name: workerpool_test.go
 */

package workerpool

import (
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestGoAndWait(t *testing.T) {
	Convey("Wait blocks until every worker returns", t, func() {
		g := New(nil)

		var done int32
		for i := 0; i < 5; i++ {
			g.Go(func() {
				atomic.AddInt32(&done, 1)
			})
		}
		g.Wait()

		So(atomic.LoadInt32(&done), ShouldEqual, 5)
	})
}

func TestPanicIsRecovered(t *testing.T) {
	Convey("a panicking worker is recovered and recorded, not propagated", t, func() {
		g := New(nil)

		var ranAfter int32
		g.Go(func() {
			panic("boom")
		})
		g.Go(func() {
			atomic.AddInt32(&ranAfter, 1)
		})
		g.Wait()

		So(ranAfter, ShouldEqual, 1)
		So(len(g.Panics()), ShouldEqual, 1)
	})
}
