// ABOUTME: HTTP request framer for a raw byte stream.
// ABOUTME: Assembles one request from chunked reads, length-delimited by Content-Length.

package httpserver

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"
)

// ErrNoRequest indicates the peer closed the stream before sending any
// bytes. The caller must not attempt a response.
var ErrNoRequest = errors.New("no request on connection")

// ErrMalformedRequestLine indicates the request line had fewer than two
// tokens. No response is attempted.
var ErrMalformedRequestLine = errors.New("malformed request line")

const readChunkSize = 1024

// Frame is one assembled HTTP request. Header keys are lowercased; on
// duplicate keys the first-seen value wins. Body holds whatever followed
// the header terminator, possibly truncated if the peer closed early.
type Frame struct {
	Method  string
	Path    string
	Headers map[string]string
	Body    string
}

// Header returns the value for key (lowercase) or "".
func (f *Frame) Header(key string) string {
	return f.Headers[key]
}

// ReadFrame assembles one HTTP request from r. It reads until the blank
// line ending the headers appears, then keeps reading until the declared
// Content-Length is satisfied or the stream ends. A short body is used
// as-is; only a completely empty stream or an unparseable request line
// aborts the frame.
func ReadFrame(r io.Reader) (*Frame, error) {
	var buf []byte
	chunk := make([]byte, readChunkSize)

	// Read until end-of-headers.
	for !bytes.Contains(buf, []byte("\r\n\r\n")) {
		n, err := r.Read(chunk)
		buf = append(buf, chunk[:n]...)
		if err != nil || n == 0 {
			break
		}
	}

	if len(buf) == 0 {
		return nil, ErrNoRequest
	}

	headerEnd := bytes.Index(buf, []byte("\r\n\r\n"))
	contentLength := 0
	if headerEnd >= 0 {
		contentLength = parseContentLength(string(buf[:headerEnd]))

		// Fill the body to the declared length; a closed stream leaves
		// a silently truncated body.
		bodyStart := headerEnd + 4
		for len(buf)-bodyStart < contentLength {
			want := contentLength - (len(buf) - bodyStart)
			if want > readChunkSize {
				want = readChunkSize
			}
			n, err := r.Read(chunk[:want])
			buf = append(buf, chunk[:n]...)
			if err != nil || n == 0 {
				break
			}
		}
	}

	return parseFrame(string(buf))
}

// parseContentLength scans the raw header block for a Content-Length
// value, matching the key case-insensitively. Absent or unparseable
// values mean no body.
func parseContentLength(headerBlock string) int {
	for _, line := range strings.Split(headerBlock, "\r\n") {
		if !strings.HasPrefix(strings.ToLower(line), "content-length:") {
			continue
		}
		v := strings.TrimSpace(line[len("content-length:"):])
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
		return 0
	}
	return 0
}

// parseFrame does the line-oriented parse of the assembled request text.
func parseFrame(raw string) (*Frame, error) {
	headerPart := raw
	body := ""
	if idx := strings.Index(raw, "\r\n\r\n"); idx >= 0 {
		headerPart = raw[:idx]
		body = raw[idx+4:]
	}

	lines := strings.Split(headerPart, "\r\n")
	tokens := strings.Fields(lines[0])
	if len(tokens) < 2 {
		return nil, ErrMalformedRequestLine
	}

	headers := make(map[string]string)
	for _, line := range lines[1:] {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		// First-seen wins on duplicate keys.
		if _, seen := headers[key]; !seen {
			headers[key] = strings.TrimSpace(value)
		}
	}

	return &Frame{
		Method:  tokens[0],
		Path:    tokens[1],
		Headers: headers,
		Body:    body,
	}, nil
}
