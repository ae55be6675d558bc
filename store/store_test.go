/*
 * @Author:    thepoy
 * @File Name: store_test.go
 */

package store

import (
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func newTestStore(t *testing.T) Store {
	path := filepath.Join(t.TempDir(), "cache.sqlite")
	s, err := NewSQLite(path, Options{MaxOperations: 1})
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	Convey("Put followed by Get returns the original value", t, func() {
		s := newTestStore(t)
		defer s.Close()

		err := s.Put("fp1", []byte("hello"))
		So(err, ShouldBeNil)

		val, _, err := s.Get("fp1")
		So(err, ShouldBeNil)
		So(string(val), ShouldEqual, "hello")

		So(s.Contains("fp1"), ShouldBeTrue)
	})

	Convey("Get on a missing key fails with ErrNotFound", t, func() {
		s := newTestStore(t)
		defer s.Close()

		_, _, err := s.Get("missing")
		So(err, ShouldEqual, ErrNotFound)
		So(s.Contains("missing"), ShouldBeFalse)
	})
}

func TestFreshnessWindow(t *testing.T) {
	Convey("a stale entry reads as not found", t, func() {
		path := filepath.Join(t.TempDir(), "cache.sqlite")
		s, err := NewSQLite(path, Options{MaxOperations: 1, Expires: time.Millisecond})
		So(err, ShouldBeNil)
		defer s.Close()

		So(s.Put("fp1", []byte("x")), ShouldBeNil)
		time.Sleep(5 * time.Millisecond)

		_, _, err = s.Get("fp1")
		So(err, ShouldEqual, ErrNotFound)
	})
}

func TestDelClearLen(t *testing.T) {
	Convey("Del removes a key and Clear empties the store", t, func() {
		s := newTestStore(t)
		defer s.Close()

		So(s.Put("fp1", []byte("a")), ShouldBeNil)
		So(s.Put("fp2", []byte("b")), ShouldBeNil)

		n, err := s.Len()
		So(err, ShouldBeNil)
		So(n, ShouldEqual, 2)

		So(s.Del("fp1"), ShouldBeNil)
		So(s.Contains("fp1"), ShouldBeFalse)

		So(s.Clear(), ShouldBeNil)
		n, err = s.Len()
		So(err, ShouldBeNil)
		So(n, ShouldEqual, 0)
	})
}

func TestIterKeys(t *testing.T) {
	Convey("IterKeys lists every stored key", t, func() {
		s := newTestStore(t)
		defer s.Close()

		So(s.Put("fp1", []byte("a")), ShouldBeNil)
		So(s.Put("fp2", []byte("b")), ShouldBeNil)

		keys, err := s.IterKeys()
		So(err, ShouldBeNil)
		So(len(keys), ShouldEqual, 2)
	})
}
