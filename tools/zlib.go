/*
 * @Author: thepoy
 * @Email: thepoy@163.com
 * @File Name: zlib.go
 * @Created: 2021-07-23 14:55:04
 * @Modified: 2021-07-31 09:15:26
 */

package tools

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
)

func Compress(src []byte) []byte {
	return CompressLevel(src, zlib.DefaultCompression)
}

// CompressLevel compresses src at the given zlib level (1-9, or
// zlib.DefaultCompression), used by the store package so PersistentStore's
// compression level is configurable per spec.
func CompressLevel(src []byte, level int) []byte {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		w = zlib.NewWriter(&buf)
	}
	w.Write(src)
	w.Close()
	return buf.Bytes()
}

func Decompress(src []byte) ([]byte, error) {
	srcReader := bytes.NewReader(src)

	r, err := zlib.NewReader(srcReader)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	io.Copy(&buf, r)
	r.Close()
	return buf.Bytes(), nil
}
