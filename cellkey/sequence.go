package cellkey

// Sequence validates that keys are presented in strictly increasing
// hierarchical order.
//
// Builders feed every key through a Sequence before forwarding it to the
// transducer, so ordering violations are always reported with the position
// of the offending input rather than surfacing as an engine error.
type Sequence struct {
	index int
	last  Key
}

// Next accepts the next key in the sequence.
//
// It fails with [DuplicateKeyError] if k equals the previous key, or
// [OutOfOrderKeyError] if k sorts before it.
func (s *Sequence) Next(k Key) error {
	if s.index > 0 {
		switch c := s.last.Compare(k); {
		case c == 0:
			return DuplicateKeyError{
				Index: s.index,
				Cell:  k.Cell(),
			}
		case c > 0:
			return OutOfOrderKeyError{
				Index: s.index,
				Cell:  k.Cell(),
				Prev:  s.last.Cell(),
			}
		}
	}

	s.last = k
	s.index++

	return nil
}

// Len returns the number of keys accepted so far.
func (s *Sequence) Len() int {
	return s.index
}
