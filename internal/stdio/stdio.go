// internal/stdio/stdio.go
// Package stdio provides the stdio binding for the gateway: JSON-RPC 2.0
// messages framed with Content-Length headers, one response per request.
package stdio

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mwiater/toolgate/internal/dispatch"
	"github.com/mwiater/toolgate/internal/rpc"
)

// Server reads framed requests from in and writes framed responses to out.
type Server struct {
	dispatcher *dispatch.Dispatcher
	reader     *bufio.Reader
	writer     *bufio.Writer
}

// New constructs a stdio server over the given streams.
func New(d *dispatch.Dispatcher, in io.Reader, out io.Writer) *Server {
	return &Server{
		dispatcher: d,
		reader:     bufio.NewReader(in),
		writer:     bufio.NewWriter(out),
	}
}

// Run processes requests until EOF or context cancellation. Framing errors
// end the stream after a best-effort error frame; dispatch errors never do.
func (s *Server) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		body, err := readFrame(s.reader)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			_ = writeFrame(s.writer, rpc.NewError(nil, rpc.CodeInvalidRequest, "invalid frame: "+err.Error()))
			return err
		}
		resp := s.dispatcher.Handle(ctx, body)
		if err := writeFrame(s.writer, resp); err != nil {
			return err
		}
	}
}

// writeFrame marshals v and writes it with a Content-Length header.
func writeFrame(w *bufio.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	return w.Flush()
}

// readFrame reads headers until a blank line, then the declared body length.
// LF-only header termination is tolerated.
func readFrame(r *bufio.Reader) ([]byte, error) {
	headers := map[string]string{}
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		if line == "\r\n" || line == "\n" {
			break
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if i := strings.IndexByte(line, ':'); i >= 0 {
			key := strings.ToLower(strings.TrimSpace(line[:i]))
			val := strings.TrimSpace(line[i+1:])
			headers[key] = val
		}
	}
	clStr, ok := headers["content-length"]
	if !ok {
		return nil, fmt.Errorf("missing Content-Length")
	}
	var length int
	if _, err := fmt.Sscanf(clStr, "%d", &length); err != nil {
		return nil, fmt.Errorf("invalid Content-Length: %v", err)
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	return body, nil
}
