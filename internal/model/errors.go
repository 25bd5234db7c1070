package model

import "errors"

type ErrorKind int

const (
	// KindNetwork covers DNS, connect, TLS handshake and mid-stream I/O
	// failures. The cause is kept in [Error.Err].
	KindNetwork ErrorKind = iota
	// KindAddressNotFound means the host resolved to zero addresses.
	KindAddressNotFound
)

func (k ErrorKind) String() string {
	if k == KindAddressNotFound {
		return "AddressNotFound"
	}
	return "Network"
}

type Error struct {
	Kind ErrorKind
	Host string
	Err  error
}

func (e *Error) Error() string {
	if e.Kind == KindAddressNotFound {
		return "address not found: " + e.Host
	}
	if e.Err == nil {
		return "network error"
	}
	return "network error: " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func AddressNotFound(host string, cause error) *Error {
	return &Error{Kind: KindAddressNotFound, Host: host, Err: cause}
}

// Network wraps err unless it already is an *Error.
func Network(host string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindNetwork, Host: host, Err: err}
}

func IsAddressNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindAddressNotFound
}

func IsNetwork(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindNetwork
}
