// package transport contains the *message syntax* side of the client:
// framing a GET request as defined by HTTP/1.1 (RFC9112) and collecting
// the response.
//
// the response is intentionally left raw. status line, headers and body are
// returned as read from the wire until the server closes the connection,
// which it is asked to do with "Connection: close". there is no
// chunked decoding, no content-length handling and no keep-alive.

package transport
