/*
 * @Author:    thepoy
 * @File Name: csv_test.go
 */

package writer

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestWriteRowAndAppendResume(t *testing.T) {
	Convey("a fresh writer truncates, a resumed writer appends", t, func() {
		path := filepath.Join(t.TempDir(), "out.csv")

		w := New(path)
		So(w.Open(), ShouldBeNil)
		So(w.WriteRow([]string{"a", "1"}), ShouldBeNil)
		So(w.Close(), ShouldBeNil)

		w2 := New(path)
		w2.SetAppend()
		So(w2.Open(), ShouldBeNil)
		So(w2.WriteRow([]string{"b", "2"}), ShouldBeNil)
		So(w2.Close(), ShouldBeNil)

		data, err := os.ReadFile(path)
		So(err, ShouldBeNil)
		So(string(data), ShouldEqual, "a,1\nb,2\n")
	})
}
