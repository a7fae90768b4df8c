// Package failure models errors raised while a process starts up.
//
// A Failure carries one Category from a closed set, a free-text message and
// an optional cause. Raw Go errors are decoded into a Category exactly once,
// by Capture:
//
//	Priority | Raw error                                    | Category
//	---------|----------------------------------------------|--------------------
//	1        | *Failure anywhere in the chain               | that failure
//	2        | syscall.EADDRINUSE                           | CategoryPortInUse
//	3        | *net.OpError with Op "listen"                | CategoryBinding
//	4        | other *net.OpError, ECONNREFUSED/RESET       | CategorySocket
//	5        | *net.DNSError, *net.AddrError, net.ErrClosed | CategorySocket
//	6        | anything else                                | CategoryUnknown
//
// Startup code builds explicit chains with Wrap:
//
//	ln, err := net.Listen("tcp", addr)
//	if err != nil {
//	    return failure.Wrap(failure.CategoryContextInit, "unable to start web server", err)
//	}
//
// *Failure implements error, so it can be returned through ordinary error
// values and recovered later with Capture or errors.As.
package failure
