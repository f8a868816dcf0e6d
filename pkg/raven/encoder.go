// encoder.go implements the optional gzip + base64 payload encoding.

package raven

import (
	"bytes"
	"encoding/base64"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"
)

// maxPooledBufferCap bounds the buffers returned to the pool so one huge
// event does not pin memory.
const maxPooledBufferCap = 1 << 20

var (
	bufferPool = sync.Pool{
		New: func() any { return bytes.NewBuffer(make([]byte, 0, 16*1024)) },
	}

	gzipPool = sync.Pool{
		New: func() any {
			w, _ := gzip.NewWriterLevel(nil, gzip.DefaultCompression)
			return w
		},
	}
)

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() <= maxPooledBufferCap {
		buf.Reset()
		bufferPool.Put(buf)
	}
}

// CompressEncode gzip-compresses the UTF-8 bytes of text and returns the
// compressed stream as standard base64 text.
func CompressEncode(text string) (string, error) {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer putBuffer(buf)

	gz := gzipPool.Get().(*gzip.Writer)
	gz.Reset(buf)
	defer gzipPool.Put(gz)

	if _, err := io.WriteString(gz, text); err != nil {
		_ = gz.Close()
		return "", &EncodingError{Op: "compress", Err: err}
	}
	if err := gz.Close(); err != nil {
		return "", &EncodingError{Op: "compress", Err: err}
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeDecompress reverses CompressEncode.
func DecodeDecompress(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", &EncodingError{Op: "decode", Err: err}
	}

	gz, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return "", &EncodingError{Op: "decompress", Err: err}
	}
	defer gz.Close()

	out, err := io.ReadAll(gz)
	if err != nil {
		return "", &EncodingError{Op: "decompress", Err: err}
	}
	return string(out), nil
}
