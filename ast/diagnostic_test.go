package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnosticsAdd(t *testing.T) {
	ref := &VariableReference{BaseNode: BaseNode{SourceLine: 5}, Name: "X"}
	var ds Diagnostics
	assert.NoError(t, ds.Err())

	ds.Add(UndefinedVariable, ref, "variable %s is not defined", ref.Name)
	ds.Add(UnknownProperty, nil, "no node")

	assert.Len(t, ds, 2)
	assert.True(t, ds.Has(UndefinedVariable))
	assert.False(t, ds.Has(DuplicateProperty))
	assert.Equal(t, 5, ds[0].Line())
	assert.Equal(t, 0, ds[1].Line())
	assert.Equal(t, "5: variable X is not defined [undefined-variable]", ds[0].String())
}

func TestDiagnosticsFormat(t *testing.T) {
	decl := &Declaration{BaseNode: BaseNode{SourceLine: 2}}
	var ds Diagnostics
	ds.Add(InvalidPropertyValueType, decl, "bad value")
	ds.Add(DuplicateProperty, decl, "twice")

	assert.Equal(t, "a.icss:2: bad value [invalid-value]\na.icss:2: twice [duplicate-property]\n", ds.Format("a.icss"))
	assert.Equal(t, "2: bad value [invalid-value]\n2: twice [duplicate-property]", ds.Error())
	assert.Error(t, ds.Err())
}

func TestDiagnosticKindString(t *testing.T) {
	names := map[DiagnosticKind]string{
		UndefinedVariable:          "undefined-variable",
		TypeMismatchOnReassignment: "type-mismatch",
		InvalidOperandType:         "invalid-operand",
		IncompatibleOperandTypes:   "incompatible-operands",
		InvalidPropertyValueType:   "invalid-value",
		UnknownProperty:            "unknown-property",
		NonBooleanCondition:        "non-boolean-condition",
		DuplicateProperty:          "duplicate-property",
		UnresolvedAssignment:       "unresolved-assignment",
		InternalError:              "internal",
		DiagnosticKind(99):         "unknown",
	}
	for k, want := range names {
		assert.Equal(t, want, k.String())
	}
}
