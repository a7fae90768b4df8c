package failure

import (
	"errors"
	"fmt"
	"net"
	"syscall"
)

// Category is the closed set of startup failure kinds.
type Category int

const (
	// CategoryUnknown represents an unclassified failure
	CategoryUnknown Category = iota
	// CategoryContextInit represents a failure while initializing the application context
	CategoryContextInit
	// CategoryPortInUse represents a listen address already taken by another process
	CategoryPortInUse
	// CategorySocket represents a generic network/socket failure
	CategorySocket
	// CategoryUnsatisfiedDependency represents a component whose dependency could not be resolved
	CategoryUnsatisfiedDependency
	// CategoryComponentNotFound represents a request for a component that is not registered
	CategoryComponentNotFound
	// CategoryBinding represents a failure to bind a listen address
	CategoryBinding
	// CategoryComponentCreation represents a component constructor failure
	CategoryComponentCreation
)

// String returns the string representation of the Category.
func (c Category) String() string {
	switch c {
	case CategoryContextInit:
		return "ContextInit"
	case CategoryPortInUse:
		return "PortInUse"
	case CategorySocket:
		return "Socket"
	case CategoryUnsatisfiedDependency:
		return "UnsatisfiedDependency"
	case CategoryComponentNotFound:
		return "ComponentNotFound"
	case CategoryBinding:
		return "Binding"
	case CategoryComponentCreation:
		return "ComponentCreation"
	default:
		return "Unknown"
	}
}

// Failure is a startup error decoded into a Category.
// A Failure owns its immediate Cause; chains are built explicitly by
// startup code and stay shallow.
type Failure struct {
	Category Category
	Message  string
	Cause    *Failure

	// origin is the raw error this failure was captured from, if any.
	origin error
}

// New creates a Failure without a cause.
func New(category Category, message string) *Failure {
	return &Failure{Category: category, Message: message}
}

// Newf creates a Failure with a formatted message.
func Newf(category Category, format string, args ...interface{}) *Failure {
	return New(category, fmt.Sprintf(format, args...))
}

// Wrap creates a Failure caused by err. The cause is captured once here,
// so later classification never has to inspect concrete Go error types.
// If err is nil the Failure has no cause.
func Wrap(category Category, message string, err error) *Failure {
	return &Failure{Category: category, Message: message, Cause: Capture(err)}
}

// Error implements error.
func (f *Failure) Error() string {
	if f == nil {
		return "<nil>"
	}
	if f.Cause == nil {
		return f.Message
	}
	if f.Message == "" {
		return f.Cause.Error()
	}
	return f.Message + ": " + f.Cause.Error()
}

// Unwrap exposes the cause (or the captured raw error) to errors.Is and errors.As.
func (f *Failure) Unwrap() error {
	if f == nil {
		return nil
	}
	if f.Cause != nil {
		return f.Cause
	}
	return f.origin
}

// Capture decodes err into a Failure.
//
// If the chain already contains a *Failure, that failure is returned as is.
// Otherwise the category is derived from the chain and the result is a leaf
// whose Message is err.Error(). Capture(nil) returns nil.
func Capture(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) && f != nil {
		return f
	}
	return &Failure{Category: categorize(err), Message: err.Error(), origin: err}
}

// categorize maps raw Go errors onto the closed category set.
// The order matters: a listen error caused by EADDRINUSE is a port-in-use
// failure, not a generic binding failure.
func categorize(err error) Category {
	if errors.Is(err, syscall.EADDRINUSE) {
		return CategoryPortInUse
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Op == "listen" {
			return CategoryBinding
		}
		return CategorySocket
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return CategorySocket
	}

	var dnsErr *net.DNSError
	var addrErr *net.AddrError
	if errors.As(err, &dnsErr) || errors.As(err, &addrErr) || errors.Is(err, net.ErrClosed) {
		return CategorySocket
	}

	return CategoryUnknown
}

// CategoryOf returns the category of err after capturing it.
// Returns CategoryUnknown for nil.
func CategoryOf(err error) Category {
	f := Capture(err)
	if f == nil {
		return CategoryUnknown
	}
	return f.Category
}

// Is reports whether err captures to the given category.
func Is(err error, category Category) bool {
	return CategoryOf(err) == category
}

// CauseIs reports whether f has a direct cause of the given category.
// It is safe to call on a nil Failure or one without a cause.
func (f *Failure) CauseIs(category Category) bool {
	return f != nil && f.Cause != nil && f.Cause.Category == category
}

// maxChain bounds Chain; startup chains never get close to it.
const maxChain = 16

// Chain returns f followed by its causes, outermost first.
// Cycles are cut, and the walk stops after a fixed depth.
func Chain(f *Failure) []*Failure {
	if f == nil {
		return nil
	}
	seen := make(map[*Failure]bool)
	var out []*Failure
	for cur := f; cur != nil && len(out) < maxChain; cur = cur.Cause {
		if seen[cur] {
			break
		}
		seen[cur] = true
		out = append(out, cur)
	}
	return out
}
