package jsonutil

import (
	"io"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/drewjocham/go-json-utils/internal/adapter"
)

func ReadValueWith[T any](e *Engine, data string) (T, error) {
	var v T
	err := e.ReadValue(data, &v)
	return v, err
}

func ReadValueFromWith[T any](e *Engine, r io.Reader) (T, error) {
	var v T
	err := e.ReadValueFrom(r, &v)
	return v, err
}

func ReadListWith[V any](e *Engine, data string) ([]V, error) {
	return ReadValueWith[[]V](e, data)
}

func ReadListFromWith[V any](e *Engine, r io.Reader) ([]V, error) {
	return ReadValueFromWith[[]V](e, r)
}

// ReadSetWith reads an array into a set. Blank input and null yield nil.
func ReadSetWith[V comparable](e *Engine, data string) (mapset.Set[V], error) {
	return toSet[V](ReadListWith[V](e, data))
}

func ReadSetFromWith[V comparable](e *Engine, r io.Reader) (mapset.Set[V], error) {
	return toSet[V](ReadListFromWith[V](e, r))
}

func toSet[V comparable](items []V, err error) (mapset.Set[V], error) {
	if err != nil || items == nil {
		return nil, err
	}
	return mapset.NewSet(items...), nil
}

func ReadMapWith[K comparable, V any](e *Engine, data string) (map[K]V, error) {
	return ReadValueWith[map[K]V](e, data)
}

func ReadMapFromWith[K comparable, V any](e *Engine, r io.Reader) (map[K]V, error) {
	return ReadValueFromWith[map[K]V](e, r)
}

func ReadListOfMapWith[K comparable, V any](e *Engine, data string) ([]map[K]V, error) {
	return ReadValueWith[[]map[K]V](e, data)
}

func ReadListOfMapFromWith[K comparable, V any](e *Engine, r io.Reader) ([]map[K]V, error) {
	return ReadValueFromWith[[]map[K]V](e, r)
}

// ReadListLazyWith opens a lazy sequence over the top-level array in r. The
// sequence is nil for blank input and null. From the call on, r belongs to
// the sequence: Close closes it, and so does any failure to open.
func ReadListLazyWith[V any](e *Engine, r io.Reader) (*adapter.Sequence[V], error) {
	br, empty, err := prepare(r)
	if err != nil || empty {
		if c, ok := r.(io.Closer); ok {
			_ = c.Close()
		}
		return nil, adapter.Wrap("read sequence", err)
	}
	return adapter.DecodeLazy[V](e.api, ownedBy(br, r), lazyBufferSize)
}

func ReadListOfMapLazyWith[K comparable, V any](e *Engine, r io.Reader) (*adapter.Sequence[map[K]V], error) {
	return ReadListLazyWith[map[K]V](e, r)
}
