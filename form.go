/**
 * @Author:      thepoy
 * @Email:       thepoy@163.com
 * @File Name:   form.go
 * @Created At:  2023-02-20 20:34:40
 * @Modified At: 2023-02-25 21:20:00
 * @Modified By: thepoy
 */

package asyncrawler

import (
	"bytes"
	"io"
	"mime/multipart"
	"os"
	"path"
	"sync"

	"github.com/go-predator/asyncrawler/transaction"
)

type MultipartFormWriter struct {
	sync.Mutex

	buf *bytes.Buffer
	w   *multipart.Writer

	cachedMap map[string]string
}

func NewMultipartFormWriter() *MultipartFormWriter {
	form := new(MultipartFormWriter)

	form.buf = new(bytes.Buffer)
	form.w = multipart.NewWriter(form.buf)
	form.cachedMap = make(map[string]string)

	return form
}

func (mfw *MultipartFormWriter) AddValue(fieldname, value string) {
	mfw.w.WriteField(fieldname, value)

	mfw.Lock()
	mfw.cachedMap[fieldname] = value
	mfw.Unlock()
}

func (mfw *MultipartFormWriter) AppendString(fieldname, value string) {
	mfw.AddValue(fieldname, value)
}

func (mfw *MultipartFormWriter) AddFile(fieldname, filename, path string) {
	f, err := os.Open(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	w, err := mfw.w.CreateFormFile(fieldname, filename)
	if err != nil {
		panic(err)
	}

	_, err = io.Copy(w, f)
	if err != nil {
		panic(err)
	}

	mfw.Lock()
	mfw.cachedMap[fieldname] = filename
	mfw.Unlock()
}

func NewMultipartForm(mfw *MultipartFormWriter) (string, *bytes.Buffer) {
	defer mfw.w.Close()

	return mfw.w.FormDataContentType(), mfw.buf
}

func (mfw *MultipartFormWriter) AppendFile(fieldname, filepath string) {
	filename := path.Base(filepath)

	mfw.AddFile(fieldname, filename, filepath)
}

// NewMultipartTransaction builds a POST Transaction whose body is the
// multipart form mfw has accumulated, setting the matching
// "Content-Type: multipart/form-data; boundary=..." header fasthttp needs
// to parse it server-side.
func NewMultipartTransaction(url string, mfw *MultipartFormWriter, headers map[string]string) *transaction.Transaction {
	contentType, buf := NewMultipartForm(mfw)

	if headers == nil {
		headers = make(map[string]string, 1)
	}
	headers["Content-Type"] = contentType

	return transaction.NewPost(url, buf.Bytes(), headers)
}
