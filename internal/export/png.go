package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

const pngDataURLPrefix = "data:image/png;base64,"

// PNGEncoder is anything that can write itself as a PNG.
type PNGEncoder interface {
	EncodePNG(w io.Writer) error
}

// DataURL encodes src as a data:image/png;base64 URL, the form the
// recognition backend accepts.
func DataURL(src PNGEncoder) (string, error) {
	var buf bytes.Buffer
	if err := src.EncodePNG(&buf); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	var b strings.Builder
	b.Grow(len(pngDataURLPrefix) + base64.StdEncoding.EncodedLen(buf.Len()))
	b.WriteString(pngDataURLPrefix)
	b.WriteString(base64.StdEncoding.EncodeToString(buf.Bytes()))
	return b.String(), nil
}
