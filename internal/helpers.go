package internal

import (
	"github.com/frankli0324/go-rawget/internal/dialer"
)

var defaultDialer = dialer.NewCoreDialer()

// SetNextProtos replaces the ALPN offer list of every *[dialer.CoreDialer]
// in the dialer chain. ok reports whether one was found.
func (c *Client) SetNextProtos(protos ...string) (ok bool) {
	c.UseDialer(func(d Dialer) Dialer {
		for cd := d; cd != nil; cd = cd.Unwrap() {
			if core, isCore := cd.(*dialer.CoreDialer); isCore {
				if core.TLSConfig == nil {
					core.TLSConfig = dialer.NewCoreDialer().TLSConfig
				}
				core.TLSConfig.NextProtos = append([]string(nil), protos...)
				ok = true
			}
		}
		return d
	})
	return
}

// SetLogger installs l on the client and on every *[dialer.CoreDialer] in
// the dialer chain.
func (c *Client) SetLogger(l Logger) {
	c.Logger = l
	c.UseDialer(func(d Dialer) Dialer {
		for cd := d; cd != nil; cd = cd.Unwrap() {
			if core, ok := cd.(*dialer.CoreDialer); ok {
				core.Logger = l
			}
		}
		return d
	})
}
