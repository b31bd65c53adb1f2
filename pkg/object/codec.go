package object

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	"go.uber.org/multierr"
)

// DefaultCompression is the zlib level used when none is configured.
const DefaultCompression = zlib.DefaultCompression

// Compress deflates raw into a zlib stream at the default level.
func Compress(raw []byte) ([]byte, error) {
	return CompressLevel(raw, DefaultCompression)
}

// CompressLevel deflates raw into a zlib stream at the given level
// (zlib.HuffmanOnly through zlib.BestCompression).
func CompressLevel(raw []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}
	if _, err := zw.Write(raw); err != nil {
		_ = zw.Close()
		return nil, fmt.Errorf("compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compress close: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress inflates a zlib stream. Any header, stream or checksum failure,
// or bytes left over after the stream ends, is reported as ErrCorruptObject.
func Decompress(compressed []byte) (out []byte, err error) {
	br := bytes.NewReader(compressed)
	zr, err := zlib.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("%w: zlib header: %v", ErrCorruptObject, err)
	}
	defer func() {
		if cerr := zr.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("%w: zlib close: %v", ErrCorruptObject, cerr))
		}
	}()

	out, err = io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: zlib stream: %v", ErrCorruptObject, err)
	}
	if br.Len() > 0 {
		return nil, fmt.Errorf("%w: %d bytes of garbage after zlib stream", ErrCorruptObject, br.Len())
	}
	return out, nil
}
