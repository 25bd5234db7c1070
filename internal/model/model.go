package model

import (
	"net/http"
)

// Request is always sent as a GET. Header carries extra headers written
// after Host; driver-owned headers (Connection, Content-Length) are dropped.
type Request struct {
	URL    string
	Header http.Header
}

// Response holds everything read from the connection until the peer closed
// it: status line, headers and body, unparsed.
type Response struct {
	Raw []byte

	// Proto is the ALPN protocol selected by a TLS server, empty for
	// plain connections or when the server didn't select one.
	Proto string
}
