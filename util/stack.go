package util

// Stack is a LIFO of A. The zero value is an empty stack.
type Stack[A any] struct {
	items []A
}

func (s *Stack[A]) Push(v A) {
	s.items = append(s.items, v)
}

func (s *Stack[A]) Pop() (ret A, ok bool) {
	if len(s.items) <= 0 {
		return ret, false
	}
	lastIndex := len(s.items) - 1
	defer func() {
		s.items = s.items[:lastIndex]
	}()
	return s.items[lastIndex], true
}

func (s *Stack[A]) Len() int {
	return len(s.items)
}

// Peek returns the element depth places below the top of the stack, so
// Peek(0) is the last pushed element.
func (s *Stack[A]) Peek(depth int) (ret A, ok bool) {
	if depth < 0 || depth >= len(s.items) {
		return ret, false
	}
	return s.items[len(s.items)-1-depth], true
}
