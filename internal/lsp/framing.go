package lsp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// ReadMessage reads one Content-Length-framed LSP message from r and
// returns its body. Header parsing is case-insensitive for the length key;
// unrecognized headers are ignored; a blank line terminates the header
// block. Returns io.EOF if the stream ends cleanly before any header line
// (pre-message EOF); any other truncation is an error (mid-header or
// mid-body EOF), per spec.md §6.
func ReadMessage(r *bufio.Reader) ([]byte, error) {
	var contentLength = -1
	sawAnyLine := false

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				if !sawAnyLine && line == "" {
					return nil, io.EOF
				}
				err = io.ErrUnexpectedEOF
			}
			return nil, errors.Wrap(err, "lsp: read header line")
		}
		sawAnyLine = true
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "" {
			break
		}
		if strings.HasPrefix(strings.ToLower(trimmed), "content-length:") {
			parts := strings.Split(trimmed, ":")
			raw := strings.TrimSpace(parts[len(parts)-1])
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, errors.Wrap(err, "lsp: malformed Content-Length header")
			}
			contentLength = n
		}
	}

	if contentLength < 0 {
		return nil, errors.New("lsp: missing Content-Length header")
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(r, body); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, errors.Wrap(err, "lsp: read message body")
	}
	if !utf8.Valid(body) {
		return nil, errors.New("lsp: message body is not valid UTF-8")
	}
	return body, nil
}

// WriteMessage frames body with a Content-Length header and writes it to
// w.
func WriteMessage(w io.Writer, body []byte) error {
	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(body))
	if _, err := io.WriteString(w, header); err != nil {
		return errors.Wrap(err, "lsp: write header")
	}
	if _, err := w.Write(body); err != nil {
		return errors.Wrap(err, "lsp: write body")
	}
	return nil
}
