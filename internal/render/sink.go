package render

import "x86color/internal/disasm"

// Fragment is one piece of formatted text and its kind.
type Fragment struct {
	Text string
	Kind disasm.TextKind
}

// Sink collects the fragments of a single instruction. It is owned by one
// render loop; Clear must be called before every Format.
type Sink struct {
	frags []Fragment
}

// NewSink returns an empty sink.
func NewSink() *Sink {
	return &Sink{frags: make([]Fragment, 0, 16)}
}

// Write implements disasm.Output.
func (s *Sink) Write(text string, kind disasm.TextKind) {
	s.Append(Fragment{Text: text, Kind: kind})
}

// Append adds a fragment in emission order.
func (s *Sink) Append(f Fragment) {
	s.frags = append(s.frags, f)
}

// Clear empties the sink, keeping its capacity.
func (s *Sink) Clear() {
	clear(s.frags)
	s.frags = s.frags[:0]
}

// Drain returns the held fragments without clearing them. The slice is only
// valid until the next Clear.
func (s *Sink) Drain() []Fragment {
	return s.frags
}

// Len is the number of held fragments.
func (s *Sink) Len() int {
	return len(s.frags)
}

// String joins the held fragment text.
func (s *Sink) String() string {
	n := 0
	for _, f := range s.frags {
		n += len(f.Text)
	}
	b := make([]byte, 0, n)
	for _, f := range s.frags {
		b = append(b, f.Text...)
	}
	return string(b)
}
