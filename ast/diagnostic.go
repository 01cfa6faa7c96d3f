package ast

import (
	"fmt"
	"strings"
)

// DiagnosticKind classifies a semantic error found by a pass.
type DiagnosticKind int

const (
	// UndefinedVariable: a reference resolves to nothing in the active scope chain.
	UndefinedVariable DiagnosticKind = iota
	// TypeMismatchOnReassignment: a variable is rebound to a different type.
	TypeMismatchOnReassignment
	// InvalidOperandType: an operation has a color or bool operand.
	InvalidOperandType
	// IncompatibleOperandTypes: add/subtract operands differ, or multiply has no scalar.
	IncompatibleOperandTypes
	// InvalidPropertyValueType: the value type is not allowed for the property.
	InvalidPropertyValueType
	// UnknownProperty: the property is outside the supported set.
	UnknownProperty
	// NonBooleanCondition: an if condition is not a bool.
	NonBooleanCondition
	// DuplicateProperty: an evaluated rule declares the same property twice.
	DuplicateProperty
	// UnresolvedAssignment: the assigned value has no inferable type.
	UnresolvedAssignment
	// InternalError: a pass met a node kind the parser never builds.
	InternalError
)

func (k DiagnosticKind) String() string {
	switch k {
	case UndefinedVariable:
		return "undefined-variable"
	case TypeMismatchOnReassignment:
		return "type-mismatch"
	case InvalidOperandType:
		return "invalid-operand"
	case IncompatibleOperandTypes:
		return "incompatible-operands"
	case InvalidPropertyValueType:
		return "invalid-value"
	case UnknownProperty:
		return "unknown-property"
	case NonBooleanCondition:
		return "non-boolean-condition"
	case DuplicateProperty:
		return "duplicate-property"
	case UnresolvedAssignment:
		return "unresolved-assignment"
	case InternalError:
		return "internal"
	default:
		return "unknown"
	}
}

// Diagnostic is a semantic error attached to the node it applies to.
type Diagnostic struct {
	Kind    DiagnosticKind
	Node    Node
	Message string
}

// Line returns the source line of the offending node.
func (d Diagnostic) Line() int {
	if d.Node == nil {
		return 0
	}
	return d.Node.NodeLine()
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d: %s [%s]", d.Line(), d.Message, d.Kind)
}

// Diagnostics is an ordered list of diagnostics.
type Diagnostics []Diagnostic

// Add appends a diagnostic for node.
func (ds *Diagnostics) Add(kind DiagnosticKind, node Node, format string, args ...any) {
	*ds = append(*ds, Diagnostic{Kind: kind, Node: node, Message: fmt.Sprintf(format, args...)})
}

// Has reports whether any diagnostic of the given kind was recorded.
func (ds Diagnostics) Has(kind DiagnosticKind) bool {
	for _, d := range ds {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

// Format renders the diagnostics one per line as file:line: message.
func (ds Diagnostics) Format(file string) string {
	var b strings.Builder
	for _, d := range ds {
		if file != "" {
			b.WriteString(file)
			b.WriteByte(':')
		}
		b.WriteString(d.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func (ds Diagnostics) Error() string {
	return strings.TrimSuffix(ds.Format(""), "\n")
}

// Err returns ds as an error, or nil when there are no diagnostics.
func (ds Diagnostics) Err() error {
	if len(ds) == 0 {
		return nil
	}
	return ds
}
