// Copyright 2024 The gorlp Authors
// This file is part of the gorlp library.
//
// The gorlp library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The gorlp library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the gorlp library. If not, see <http://www.gnu.org/licenses/>.

package rlp

import (
	"errors"
	"fmt"
	"io"
	"reflect"
)

// EncodeListToBuffer writes vals to b as a single RLP list, calling
// Encode on each element in turn. It saves a custom EncodeRLP method
// from having to bracket List/ListEnd by hand whenever one of its
// fields is itself a homogeneous slice.
func EncodeListToBuffer[T any](b EncoderBuffer, vals []T) error {
	l := b.List()
	for i := range vals {
		if err := Encode(b, vals[i]); err != nil {
			return err
		}
	}
	b.ListEnd(l)
	return nil
}

// DecodeList reads the list ahead in s, decoding each element into a
// fresh *T, and returns the resulting slice. The slice is never nil,
// even for an empty list: this package only distinguishes "empty" from
// "absent" through rlp:"nil" tags, not through a nil Go slice.
func DecodeList[T any](s *Stream) ([]*T, error) {
	if _, err := s.List(); err != nil {
		return nil, err
	}
	vals := []*T{}
	for s.MoreDataInList() {
		v := new(T)
		if err := s.Decode(v); err != nil {
			return vals, err
		}
		vals = append(vals, v)
	}
	return vals, s.ListEnd()
}

// Fields assembles a record's RLP encoding out of a variable number of
// fields determined at runtime, rather than the fixed struct shape the
// reflection-driven codec expects. It suits records whose trailing
// fields vary by protocol version (e.g. a
// legacy record without a chain ID versus one carrying EIP-155 replay
// protection): the shared prefix goes in Required, and the
// version-dependent suffix goes in Optional.
type Fields struct {
	Required []any
	Optional []any
}

var _ interface {
	Encoder
	Decoder
} = (*Fields)(nil)

var errUnsupportedOptionalFieldType = errors.New("rlp: optional field must be a pointer or slice")

// EncodeRLP writes Required followed by however many of Optional are
// non-nil, as one RLP list. Inclusion of an optional field is
// monotonic: once a field at index i is included because it or a
// later field is non-nil, every field before it is included too, so a
// decoder never has to guess which subset of a fixed-length tail was
// present.
func (f *Fields) EncodeRLP(w io.Writer) error {
	include, err := f.trailingPresence()
	if err != nil {
		return err
	}
	b := NewEncoderBuffer(w)
	l := b.List()
	for _, v := range f.Required {
		if err := Encode(b, v); err != nil {
			return err
		}
	}
	for i, v := range f.Optional {
		if !include[i] {
			break
		}
		if err := Encode(b, v); err != nil {
			return err
		}
	}
	b.ListEnd(l)
	return b.Flush()
}

// trailingPresence returns, for each index of Optional, whether that
// field must be written. It finds the highest index holding a non-nil
// value and marks everything up to and including that index present;
// everything after it is trimmed from the encoding.
func (f *Fields) trailingPresence() ([]bool, error) {
	lastPresent := -1
	for i, v := range f.Optional {
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Slice, reflect.Pointer:
			if !rv.IsNil() {
				lastPresent = i
			}
		default:
			return nil, fmt.Errorf("%w: %T", errUnsupportedOptionalFieldType, v)
		}
	}
	include := make([]bool, len(f.Optional))
	for i := 0; i <= lastPresent; i++ {
		include[i] = true
	}
	return include, nil
}

// DecodeRLP reads Required followed by as much of Optional as the
// input list still has room for. Every destination, required or
// optional, must be a pointer; callers that need to tell "field
// omitted" apart from "field present but zero" should wrap the
// pointer with Nillable.
func (f *Fields) DecodeRLP(s *Stream) error {
	return s.FromList(func() error {
		for _, v := range f.Required {
			if err := s.Decode(v); err != nil {
				return err
			}
		}
		for _, v := range f.Optional {
			if !s.MoreDataInList() {
				break
			}
			if err := s.Decode(v); err != nil {
				return err
			}
		}
		return nil
	})
}

// Nillable adapts field to the rlp:"nil" convention for use inside a
// Fields.Optional (or Required) slice: a zero-size item decodes to a
// nil *field, anything else decodes into *field normally.
func Nillable[T any](field **T) Decoder {
	return &nillable[T]{field}
}

type nillable[T any] struct{ v **T }

func (n *nillable[T]) DecodeRLP(s *Stream) error {
	kind, size, err := s.Kind()
	if err != nil {
		return err
	}
	if kind == Byte || size > 0 {
		return s.Decode(n.v)
	}
	*n.v = nil
	_, err = s.Raw()
	return err
}
