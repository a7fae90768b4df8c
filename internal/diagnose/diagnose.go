// Package diagnose turns a startup failure into an operator-facing
// description and a suggested remedy.
package diagnose

import (
	"fmt"

	"bootd/internal/failure"
)

// Diagnosis is the result of classifying a failure.
type Diagnosis struct {
	Description string
	Action      string
	// Source is the failure the diagnosis was built from. It is kept for
	// logging and is nil when the classified failure was nil.
	Source *failure.Failure
}

const (
	unknownDescription = "Unknown failure"
	unknownAction      = "No specific action available"

	portInUseAction   = "Configure a new port"
	creationAction    = "Check bean configuration, dependencies, or type mismatches"
	notFoundAction    = "Ensure that the bean is correctly defined in the application context"
	dependencyAction  = "Ensure that all required dependencies are available and properly configured"
	socketAction      = "This could be caused by network issues or unavailable resources. Check if the port is being used by another process."
	contextAction     = "Check the application context initialization logs for further details"
	portBindingAction = "The port might already be in use. Try changing the port by updating the configured port setting or inspecting which process holds that port."
)

// rule is one entry of the ordered match table.
type rule struct {
	match   func(f *failure.Failure) bool
	analyze func(f *failure.Failure) Diagnosis
}

// rules is evaluated top to bottom and the first match wins. Categories are
// not mutually exclusive once causes are considered, so the specific
// context-init/port-in-use pairing must stay ahead of the general
// context-init rule.
var rules = []rule{
	{
		match: func(f *failure.Failure) bool {
			return f.Category == failure.CategoryContextInit && f.CauseIs(failure.CategoryPortInUse)
		},
		analyze: func(f *failure.Failure) Diagnosis { return portInUse(f.Cause) },
	},
	{match: categoryIs(failure.CategorySocket), analyze: socket},
	{match: categoryIs(failure.CategoryUnsatisfiedDependency), analyze: unsatisfiedDependency},
	{match: categoryIs(failure.CategoryComponentNotFound), analyze: notFound},
	{match: categoryIs(failure.CategoryBinding), analyze: portBinding},
	{match: categoryIs(failure.CategoryContextInit), analyze: contextInit},
	{match: categoryIs(failure.CategoryComponentCreation), analyze: creation},
}

func categoryIs(c failure.Category) func(f *failure.Failure) bool {
	return func(f *failure.Failure) bool { return f.Category == c }
}

// Classify returns a Diagnosis for f. It never fails: a nil failure or an
// unrecognized category yields the generic "Unknown failure" diagnosis.
// Classify only reads f and is safe for concurrent use.
func Classify(f *failure.Failure) Diagnosis {
	if f != nil {
		for _, r := range rules {
			if r.match(f) {
				return r.analyze(f)
			}
		}
	}
	return Diagnosis{Description: unknownDescription, Action: unknownAction, Source: f}
}

// Analyze captures err and classifies the result.
func Analyze(err error) Diagnosis {
	return Classify(failure.Capture(err))
}

func portInUse(f *failure.Failure) Diagnosis {
	return Diagnosis{Description: fmt.Sprintf("Port issue: %s", f.Message), Action: portInUseAction, Source: f}
}

func creation(f *failure.Failure) Diagnosis {
	return Diagnosis{Description: fmt.Sprintf("Bean creation failed: %s", f.Message), Action: creationAction, Source: f}
}

func notFound(f *failure.Failure) Diagnosis {
	return Diagnosis{Description: fmt.Sprintf("Bean not found: %s", f.Message), Action: notFoundAction, Source: f}
}

func unsatisfiedDependency(f *failure.Failure) Diagnosis {
	return Diagnosis{Description: fmt.Sprintf("Unsatisfied dependency: %s", f.Message), Action: dependencyAction, Source: f}
}

// socket covers generic network errors, which at startup are often port problems too.
func socket(f *failure.Failure) Diagnosis {
	return Diagnosis{Description: fmt.Sprintf("Network error occurred: %s", f.Message), Action: socketAction, Source: f}
}

// contextInit reports a binding cause directly; anything else gets the generic context message.
func contextInit(f *failure.Failure) Diagnosis {
	if f.CauseIs(failure.CategoryBinding) {
		return portBinding(f.Cause)
	}
	return Diagnosis{
		Description: fmt.Sprintf("Application context initialization failed: %s", f.Message),
		Action:      contextAction,
		Source:      f,
	}
}

func portBinding(f *failure.Failure) Diagnosis {
	return Diagnosis{Description: fmt.Sprintf("Port binding failed: %s", f.Message), Action: portBindingAction, Source: f}
}
