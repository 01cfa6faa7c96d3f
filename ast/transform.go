package ast

// Transform rewrites a stylesheet. Implementations must not mutate the input.
type Transform interface {
	Name() string
	Transform(sheet *Stylesheet) (*Stylesheet, Diagnostics, error)
}

// TransformFunc adapts a named function to the Transform interface.
type TransformFunc struct {
	N string
	F func(*Stylesheet) (*Stylesheet, Diagnostics, error)
}

func (t TransformFunc) Name() string { return t.N }
func (t TransformFunc) Transform(sheet *Stylesheet) (*Stylesheet, Diagnostics, error) {
	return t.F(sheet)
}

// Chain composes transforms left-to-right into a single Transform.
// Each transform receives the output of the previous one. Diagnostics are
// concatenated; the first error stops the chain.
func Chain(transforms ...Transform) Transform {
	return TransformFunc{
		N: "chain",
		F: func(sheet *Stylesheet) (*Stylesheet, Diagnostics, error) {
			var all Diagnostics
			for _, t := range transforms {
				out, diags, err := t.Transform(sheet)
				all = append(all, diags...)
				if err != nil {
					return nil, all, err
				}
				sheet = out
			}
			return sheet, all, nil
		},
	}
}
