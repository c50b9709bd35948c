package parser

import (
	"bufio"
	"io"

	"golang.org/x/net/html/charset"
)

// NewUTF8Reader wraps an io.Reader with automatic character encoding detection
// and conversion to UTF-8, so caption payloads delivered in any encoding are
// normalized before JSON decoding.
//
// The charset is detected from byte order marks or heuristics; if the content
// is already UTF-8 this is a no-op wrapper with minimal overhead.
func NewUTF8Reader(body io.Reader) (io.Reader, error) {
	// contentType is empty because we want detection from the content itself
	converted, err := charset.NewReader(body, "")
	if err != nil {
		return nil, err
	}

	// The conversion keeps a leading BOM; a stray U+FEFF makes json.Unmarshal
	// reject an otherwise valid payload, so drop it here.
	buffered := bufio.NewReader(converted)
	if r, _, err := buffered.ReadRune(); err == nil && r != '\ufeff' {
		if err := buffered.UnreadRune(); err != nil {
			return nil, err
		}
	}
	return buffered, nil
}
