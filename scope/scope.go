// Package scope provides the lexical frame stack shared by the checker and
// the evaluator. Each frame maps variable names to a payload: a type tag
// while checking, a literal value while evaluating.
package scope

// Stack is a LIFO sequence of frames. The zero value is an empty stack
// ready to use.
type Stack[T any] struct {
	frames []map[string]T
}

// New returns an empty stack.
func New[T any]() *Stack[T] {
	return &Stack[T]{}
}

// Push opens a new innermost frame.
func (s *Stack[T]) Push() {
	s.frames = append(s.frames, make(map[string]T))
}

// Pop discards the innermost frame. Popping an empty stack is a
// programming error and panics.
func (s *Stack[T]) Pop() {
	if len(s.frames) == 0 {
		panic("scope: pop of empty stack")
	}
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
}

// Enter pushes a frame and returns the function that pops it, so callers
// can write defer s.Enter()().
func (s *Stack[T]) Enter() func() {
	s.Push()
	depth := len(s.frames)
	return func() {
		if len(s.frames) != depth {
			panic("scope: unbalanced frame exit")
		}
		s.Pop()
	}
}

// Bind writes name into the innermost frame, replacing any binding of the
// same name in that frame. Outer frames are untouched.
func (s *Stack[T]) Bind(name string, v T) {
	if len(s.frames) == 0 {
		panic("scope: bind with no open frame")
	}
	s.frames[len(s.frames)-1][name] = v
}

// Resolve looks name up from the innermost frame outwards.
func (s *Stack[T]) Resolve(name string) (T, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i][name]; ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Clear drops every frame.
func (s *Stack[T]) Clear() {
	s.frames = nil
}

// Names returns the names visible from the innermost frame, each once,
// innermost binding first.
func (s *Stack[T]) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for i := len(s.frames) - 1; i >= 0; i-- {
		for name := range s.frames[i] {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}
