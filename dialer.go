package rawget

import (
	"github.com/frankli0324/go-rawget/internal/dialer"
)

type Dialer = dialer.Dialer
type CoreDialer = dialer.CoreDialer

type ResolveConfig = dialer.ResolveConfig
