/*
 * @Author:    thepoy
 * @File Name: fetcher_test.go
 */

package fetcher

import (
	"errors"
	"net"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/go-predator/asyncrawler/transaction"
)

func TestFetchSetsStatusAndBody(t *testing.T) {
	Convey("a successful fetch populates Status and BodyOut", t, func() {
		ln := fasthttputil.NewInmemoryListener()
		defer ln.Close()

		srv := &fasthttp.Server{
			Handler: func(ctx *fasthttp.RequestCtx) {
				ctx.SetStatusCode(200)
				ctx.SetContentType("text/html")
				ctx.SetBodyString("<html></html>")
			},
		}
		go srv.Serve(ln)

		f := New(nil)
		client := &fasthttp.Client{
			Dial: func(addr string) (net.Conn, error) { return ln.Dial() },
		}
		f.clients.Store("", client)

		txn := transaction.New("http://test/a")
		err := f.Fetch(txn, "", "test-agent/1.0", 2*time.Second)

		So(err, ShouldBeNil)
		So(txn.Status, ShouldEqual, 200)
		So(string(txn.BodyOut), ShouldEqual, "<html></html>")
	})
}

func TestFetchTransportErrorSetsLocalFailure(t *testing.T) {
	Convey("a transport error with no prior status sets the synthetic 512 code", t, func() {
		f := New(nil)
		client := &fasthttp.Client{
			Dial: func(addr string) (net.Conn, error) {
				return nil, errors.New("dial timeout")
			},
		}
		f.clients.Store("", client)

		txn := transaction.New("http://unreachable/a")
		err := f.Fetch(txn, "", "", 100*time.Millisecond)

		So(err, ShouldNotBeNil)
		So(txn.Status, ShouldEqual, transaction.StatusLocalFailure)
	})
}

func TestFetchChoosesPostWhenBodyPresent(t *testing.T) {
	Convey("a Transaction with BodyIn is sent as POST", t, func() {
		ln := fasthttputil.NewInmemoryListener()
		defer ln.Close()

		var gotMethod string
		srv := &fasthttp.Server{
			Handler: func(ctx *fasthttp.RequestCtx) {
				gotMethod = string(ctx.Method())
				ctx.SetStatusCode(200)
			},
		}
		go srv.Serve(ln)

		f := New(nil)
		client := &fasthttp.Client{
			Dial: func(addr string) (net.Conn, error) { return ln.Dial() },
		}
		f.clients.Store("", client)

		txn := transaction.NewPost("http://test/submit", []byte("a=1"), nil)
		err := f.Fetch(txn, "", "", 2*time.Second)

		So(err, ShouldBeNil)
		So(gotMethod, ShouldEqual, "POST")
	})
}
