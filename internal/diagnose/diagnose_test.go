package diagnose_test

import (
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bootd/internal/diagnose"
	"bootd/internal/failure"
)

const (
	portBindingAction = "The port might already be in use. Try changing the port by updating the configured port setting or inspecting which process holds that port."
	socketAction      = "This could be caused by network issues or unavailable resources. Check if the port is being used by another process."
	contextAction     = "Check the application context initialization logs for further details"
)

func withCause(category failure.Category, message string, cause *failure.Failure) *failure.Failure {
	return &failure.Failure{Category: category, Message: message, Cause: cause}
}

func TestClassify_Formatters(t *testing.T) {
	tests := []struct {
		name        string
		in          *failure.Failure
		description string
		action      string
	}{
		{
			name:        "socket",
			in:          failure.New(failure.CategorySocket, "connection refused"),
			description: "Network error occurred: connection refused",
			action:      socketAction,
		},
		{
			name:        "unsatisfied dependency",
			in:          failure.New(failure.CategoryUnsatisfiedDependency, "journal needs store"),
			description: "Unsatisfied dependency: journal needs store",
			action:      "Ensure that all required dependencies are available and properly configured",
		},
		{
			name:        "component not found",
			in:          failure.New(failure.CategoryComponentNotFound, "no component named 'cache' is available"),
			description: "Bean not found: no component named 'cache' is available",
			action:      "Ensure that the bean is correctly defined in the application context",
		},
		{
			name:        "binding",
			in:          failure.New(failure.CategoryBinding, "listen tcp :80: bind: permission denied"),
			description: "Port binding failed: listen tcp :80: bind: permission denied",
			action:      portBindingAction,
		},
		{
			name:        "context init",
			in:          failure.New(failure.CategoryContextInit, "invalid configuration"),
			description: "Application context initialization failed: invalid configuration",
			action:      contextAction,
		},
		{
			name:        "component creation",
			in:          failure.New(failure.CategoryComponentCreation, "error creating component 'store'"),
			description: "Bean creation failed: error creating component 'store'",
			action:      "Check bean configuration, dependencies, or type mismatches",
		},
		{
			name:        "unknown category",
			in:          failure.New(failure.CategoryUnknown, "something odd"),
			description: "Unknown failure",
			action:      "No specific action available",
		},
		{
			name:        "out of range category",
			in:          failure.New(failure.Category(42), "something odd"),
			description: "Unknown failure",
			action:      "No specific action available",
		},
		{
			name:        "port in use without context",
			in:          failure.New(failure.CategoryPortInUse, "address already in use"),
			description: "Unknown failure",
			action:      "No specific action available",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := diagnose.Classify(tt.in)
			assert.Equal(t, tt.description, d.Description)
			assert.Equal(t, tt.action, d.Action)
			assert.Same(t, tt.in, d.Source)
		})
	}
}

func TestClassify_PortInUsePrecedesContext(t *testing.T) {
	inner := failure.New(failure.CategoryPortInUse, "Port 8080 is already in use")
	outer := withCause(failure.CategoryContextInit, "unable to start web server", inner)

	d := diagnose.Classify(outer)

	assert.Equal(t, "Port issue: Port 8080 is already in use", d.Description)
	assert.Equal(t, "Configure a new port", d.Action)
	assert.Same(t, inner, d.Source)
	assert.NotContains(t, d.Description, "unable to start web server")
}

func TestClassify_NestedBinding(t *testing.T) {
	inner := failure.New(failure.CategoryBinding, "listen tcp :80: bind: permission denied")
	outer := withCause(failure.CategoryContextInit, "unable to start web server", inner)

	d := diagnose.Classify(outer)

	assert.Equal(t, "Port binding failed: listen tcp :80: bind: permission denied", d.Description)
	assert.Equal(t, portBindingAction, d.Action)
	assert.Same(t, inner, d.Source)
}

func TestClassify_ContextWithUnrelatedCause(t *testing.T) {
	inner := failure.New(failure.CategoryComponentCreation, "error creating component 'store'")
	outer := withCause(failure.CategoryContextInit, "refresh failed", inner)

	d := diagnose.Classify(outer)

	assert.Equal(t, "Application context initialization failed: refresh failed", d.Description)
	assert.Equal(t, contextAction, d.Action)
	assert.Same(t, outer, d.Source)
}

func TestClassify_ContextWithoutCause(t *testing.T) {
	f := failure.New(failure.CategoryContextInit, "refresh failed")

	var d diagnose.Diagnosis
	require.NotPanics(t, func() { d = diagnose.Classify(f) })

	assert.Equal(t, "Application context initialization failed: refresh failed", d.Description)
	assert.Equal(t, contextAction, d.Action)
}

func TestClassify_EmptyMessage(t *testing.T) {
	d := diagnose.Classify(failure.New(failure.CategorySocket, ""))

	assert.Equal(t, "Network error occurred: ", d.Description)
	assert.Equal(t, socketAction, d.Action)
}

func TestClassify_Nil(t *testing.T) {
	var d diagnose.Diagnosis
	require.NotPanics(t, func() { d = diagnose.Classify(nil) })

	assert.Equal(t, "Unknown failure", d.Description)
	assert.Equal(t, "No specific action available", d.Action)
	assert.Nil(t, d.Source)
}

func TestClassify_DoesNotMutate(t *testing.T) {
	inner := failure.New(failure.CategoryPortInUse, "in use")
	outer := withCause(failure.CategoryContextInit, "start", inner)
	before := *outer
	beforeInner := *inner

	_ = diagnose.Classify(outer)

	assert.Equal(t, before, *outer)
	assert.Equal(t, beforeInner, *inner)
}

func TestClassify_Concurrent(t *testing.T) {
	f := withCause(failure.CategoryContextInit, "start", failure.New(failure.CategoryBinding, "denied"))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d := diagnose.Classify(f)
			assert.Equal(t, "Port binding failed: denied", d.Description)
		}()
	}
	wg.Wait()
}

func TestAnalyze_RawErrors(t *testing.T) {
	inUse := &net.OpError{Op: "listen", Net: "tcp", Err: os.NewSyscallError("bind", syscall.EADDRINUSE)}

	tests := []struct {
		name        string
		err         error
		description string
	}{
		{
			name:        "context wrapping address in use",
			err:         failure.Wrap(failure.CategoryContextInit, "unable to start web server", inUse),
			description: "Port issue: " + inUse.Error(),
		},
		{
			name:        "fmt wrapped failure",
			err:         fmt.Errorf("run: %w", failure.New(failure.CategorySocket, "reset")),
			description: "Network error occurred: reset",
		},
		{
			name:        "raw dial error",
			err:         &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)},
			description: "Network error occurred: dial tcp: connect: connection refused",
		},
		{
			name:        "plain error",
			err:         errors.New("boom"),
			description: "Unknown failure",
		},
		{
			name:        "nil error",
			err:         nil,
			description: "Unknown failure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.description, diagnose.Analyze(tt.err).Description)
		})
	}
}
