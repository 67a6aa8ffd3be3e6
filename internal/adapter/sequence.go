package adapter

import (
	"io"
	"iter"
	"reflect"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
)

// source produces the elements behind a Sequence.
type source[V any] interface {
	// more reports whether another element follows, consuming at most the
	// separator in front of it.
	more() (bool, error)
	read() (V, error)
	close() error
}

// Sequence is a single-pass, forward-only cursor over a JSON array. When
// obtained from a lazy read, every element is decoded on demand from the
// underlying reader; the consumer owns the cursor and closes it.
//
// A nil *Sequence is an empty, exhausted sequence. A Sequence value with no
// source, such as one read from null, is written as null.
type Sequence[V any] struct {
	src     source[V]
	pending bool
	done    bool
	err     error
}

// SequenceOf returns a sequence over values, mainly for encoding.
func SequenceOf[V any](values ...V) *Sequence[V] {
	return &Sequence[V]{src: &sliceSource[V]{items: values}}
}

// SequenceFrom adapts a range function. Encoding the sequence drains it.
func SequenceFrom[V any](seq iter.Seq[V]) *Sequence[V] {
	next, stop := iter.Pull(seq)
	return &Sequence[V]{src: &pullSource[V]{next: next, stop: stop}}
}

// HasNext reports whether another element remains. It is idempotent until
// Next is called. A read failure ends the sequence and is reported by Err.
func (s *Sequence[V]) HasNext() bool {
	if s == nil || s.src == nil || s.done {
		return false
	}
	if s.pending {
		return true
	}
	more, err := s.src.more()
	if err != nil {
		s.err, s.done = err, true
		return false
	}
	s.pending, s.done = more, !more
	return more
}

// Next decodes and returns the next element. Once the sequence is exhausted
// it returns ErrNoMoreElements.
func (s *Sequence[V]) Next() (V, error) {
	var zero V
	if !s.HasNext() {
		if s != nil && s.err != nil {
			return zero, s.err
		}
		return zero, ErrNoMoreElements
	}
	s.pending = false
	v, err := s.src.read()
	if err != nil {
		s.err, s.done = err, true
		return zero, err
	}
	return v, nil
}

func (s *Sequence[V]) Err() error {
	if s == nil {
		return nil
	}
	return s.err
}

// Close releases the underlying reader when it is an io.Closer.
func (s *Sequence[V]) Close() error {
	if s == nil || s.src == nil {
		return nil
	}
	s.done = true
	return s.src.close()
}

// All ranges over the remaining elements. Iteration stops after the first
// error, which is yielded with a zero value.
func (s *Sequence[V]) All() iter.Seq2[V, error] {
	return func(yield func(V, error) bool) {
		for s.HasNext() {
			v, err := s.Next()
			if !yield(v, err) || err != nil {
				return
			}
		}
		if err := s.Err(); err != nil {
			var zero V
			yield(zero, err)
		}
	}
}

// Collect drains the remaining elements into a slice.
func (s *Sequence[V]) Collect() ([]V, error) {
	var out []V
	for v, err := range s.All() {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

// sequenceValue lets the codec reach the element type of any Sequence[V].
type sequenceValue interface {
	decodeJSON(iter *jsoniter.Iterator)
	encodeJSON(stream *jsoniter.Stream)
	isEmpty() bool
}

var sequenceValueType = reflect.TypeOf((*sequenceValue)(nil)).Elem()

func isSequence(typ reflect.Type) bool {
	return typ.Kind() == reflect.Struct && reflect.PtrTo(typ).Implements(sequenceValueType)
}

func (s *Sequence[V]) decodeJSON(it *jsoniter.Iterator) {
	*s = Sequence[V]{}
	if it.ReadNil() {
		s.done = true
		return
	}
	if it.Attachment != lazyRoot {
		var items []V
		it.ReadVal(&items)
		s.src = &sliceSource[V]{items: items}
		return
	}
	// Nested sequences inside the elements are read eagerly.
	it.Attachment = nil
	src := &tokenSource[V]{iter: it}
	s.src = src
	more := it.ReadArray()
	if err := src.check(); err != nil {
		s.err, s.done = err, true
		return
	}
	s.pending, s.done = more, !more
}

func (s *Sequence[V]) encodeJSON(stream *jsoniter.Stream) {
	if s.src == nil && s.err == nil {
		stream.WriteNil()
		return
	}
	if !s.HasNext() {
		if s.err != nil {
			stream.Error = s.err
			return
		}
		stream.WriteEmptyArray()
		return
	}
	stream.WriteArrayStart()
	first := true
	for s.HasNext() {
		v, err := s.Next()
		if err != nil {
			stream.Error = err
			return
		}
		if !first {
			stream.WriteMore()
		}
		first = false
		stream.WriteVal(v)
	}
	if s.err != nil {
		stream.Error = s.err
		return
	}
	stream.WriteArrayEnd()
}

func (s *Sequence[V]) isEmpty() bool { return s.src == nil }

type attachment int

// lazyRoot marks an iterator whose top-level sequence is read lazily.
const lazyRoot attachment = 1

// DecodeLazy opens a lazy sequence over the top-level array in r. The
// sequence is nil when the document is null or empty. On success the
// sequence owns r and Close closes it when it is an io.Closer.
func DecodeLazy[V any](api jsoniter.API, r io.Reader, bufSize int) (*Sequence[V], error) {
	closer, _ := r.(io.Closer)
	release := func() {
		if closer != nil {
			_ = closer.Close()
		}
	}

	it := jsoniter.Parse(api, r, bufSize)
	if it.WhatIsNext() == jsoniter.InvalidValue && it.Error == io.EOF {
		release()
		return nil, nil
	}
	it.Attachment = lazyRoot

	var seq *Sequence[V]
	it.ReadVal(&seq)
	if it.Error != nil && it.Error != io.EOF {
		release()
		return nil, Wrap("read sequence", it.Error)
	}
	if seq == nil {
		release()
		return nil, nil
	}
	if src, ok := seq.src.(*tokenSource[V]); ok {
		src.closer = closer
	}
	return seq, nil
}

type tokenSource[V any] struct {
	iter   *jsoniter.Iterator
	closer io.Closer
}

func (t *tokenSource[V]) check() error {
	if err := t.iter.Error; err != nil {
		return &Error{Op: "read sequence", Err: err}
	}
	return nil
}

func (t *tokenSource[V]) more() (bool, error) {
	more := t.iter.ReadArray()
	return more, t.check()
}

func (t *tokenSource[V]) read() (V, error) {
	var v V
	t.iter.ReadVal(&v)
	return v, t.check()
}

func (t *tokenSource[V]) close() error {
	if t.closer == nil {
		return nil
	}
	c := t.closer
	t.closer = nil
	return c.Close()
}

type sliceSource[V any] struct {
	items []V
	pos   int
}

func (s *sliceSource[V]) more() (bool, error) { return s.pos < len(s.items), nil }

func (s *sliceSource[V]) read() (V, error) {
	v := s.items[s.pos]
	s.pos++
	return v, nil
}

func (s *sliceSource[V]) close() error { return nil }

type pullSource[V any] struct {
	next func() (V, bool)
	stop func()
	head V
	has  bool
}

func (p *pullSource[V]) more() (bool, error) {
	if !p.has {
		p.head, p.has = p.next()
	}
	return p.has, nil
}

func (p *pullSource[V]) read() (V, error) {
	v := p.head
	var zero V
	p.head, p.has = zero, false
	return v, nil
}

func (p *pullSource[V]) close() error {
	p.stop()
	return nil
}

type sequenceCodec struct {
	typ reflect.Type
}

func (c *sequenceCodec) value(ptr unsafe.Pointer) sequenceValue {
	return reflect.NewAt(c.typ, ptr).Interface().(sequenceValue)
}

func (c *sequenceCodec) IsEmpty(ptr unsafe.Pointer) bool { return c.value(ptr).isEmpty() }

func (c *sequenceCodec) isNull(ptr unsafe.Pointer) bool { return c.value(ptr).isEmpty() }

func (c *sequenceCodec) Decode(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	c.value(ptr).decodeJSON(iter)
}

func (c *sequenceCodec) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	c.value(ptr).encodeJSON(stream)
}
