/*
 * @Author:    thepoy
 * @File Name: seenset_test.go
 */

package seenset

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSeenSet(t *testing.T) {
	Convey("Add reports first-sight and Contains reflects it", t, func() {
		s := New()
		So(s.Contains("fp1"), ShouldBeFalse)

		So(s.Add("fp1"), ShouldBeTrue)
		So(s.Contains("fp1"), ShouldBeTrue)
		So(s.Add("fp1"), ShouldBeFalse)

		So(s.Len(), ShouldEqual, 1)
	})
}
