package transport

import (
	"bufio"
	"io"

	"github.com/frankli0324/go-rawget/internal/model"
)

type HTTP1 struct{}

// Write writes the head of a GET request. It never writes a body.
func (t HTTP1) Write(w io.Writer, r *model.PreparedRequest) error {
	if err := t.writeHeader(w, r); err != nil {
		return err
	}
	if f, ok := w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// writeHeader writes the request line and headers of an http 1.1 request
// e.g.:
//
//	GET /path?q=1 HTTP/1.1\r\n
//	Host: www.google.com\r\n
//	X-Xx-Yy: cccccc\r\n
//	Connection: close\r\n
//	\r\n
func (t HTTP1) writeHeader(w io.Writer, r *model.PreparedRequest) error {
	header := bufio.NewWriter(w) // default bufsize is 4096

	header.WriteString("GET ")
	header.WriteString(r.U.RequestTarget())
	header.WriteString(" HTTP/1.1\r\n")

	header.WriteString("Host: ")
	header.WriteString(r.HeaderHost)
	header.WriteString("\r\n")
	for _, f := range r.Header {
		header.WriteString(f.Name)
		header.WriteString(": ")
		header.WriteString(f.Value)
		header.WriteString("\r\n")
	}
	// connections are never reused, let the server close it after responding
	header.WriteString("Connection: close\r\n")
	if _, err := header.WriteString("\r\n"); err != nil {
		return err
	}
	return header.Flush()
}

// Read returns everything r yields until EOF. The response isn't parsed.
func (t HTTP1) Read(r io.Reader, resp *model.Response) (err error) {
	resp.Raw, err = io.ReadAll(r)
	return err
}
