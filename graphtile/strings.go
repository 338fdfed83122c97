// File: strings.go
// Role: per-tile string interning table addressed by dense id.
// Determinism: ids are assigned in first-seen order.

package graphtile

import "github.com/mikelor/routing2/tilecodec"

// stringTable interns strings into a dense id space backed by an
// append-only byte arena, so attribute bags can reference keys/values as
// small integers instead of repeating text.
type stringTable struct {
	buf     *tilecodec.Buffer
	offsets []uint32 // dense id -> byte offset of its length-prefixed entry
	index   map[string]uint32
}

func newStringTable() *stringTable {
	return &stringTable{buf: tilecodec.NewBuffer(), index: make(map[string]uint32)}
}

// intern returns s's dense id, assigning a new one if s was never seen.
func (s *stringTable) intern(str string) uint32 {
	if id, ok := s.index[str]; ok {
		return id
	}
	id := uint32(len(s.offsets))
	offset := uint32(s.buf.Len())
	s.buf.WriteVarUint(uint64(len(str)))
	for i := 0; i < len(str); i++ {
		s.buf.WriteFixed(1, uint64(str[i]))
	}
	s.offsets = append(s.offsets, offset)
	s.index[str] = id

	return id
}

// lookup returns the string interned under id.
func (s *stringTable) lookup(id uint32) string {
	if id >= uint32(len(s.offsets)) {
		return ""
	}
	pos := int(s.offsets[id])
	length, n := s.buf.ReadVarUintAt(pos)
	pos += n
	out := make([]byte, length)
	for i := range out {
		out[i] = byte(s.buf.ReadFixedAt(pos+i, 1))
	}

	return string(out)
}

func (s *stringTable) clone() *stringTable {
	clone := &stringTable{
		buf:     s.buf.Clone(),
		offsets: append([]uint32(nil), s.offsets...),
		index:   make(map[string]uint32, len(s.index)),
	}
	for k, v := range s.index {
		clone.index[k] = v
	}

	return clone
}
