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
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// typeCache memoizes the decoder/writer pair generated for each (type, tag
// set) combination, so reflecting over a struct's fields happens once per
// shape rather than on every Encode/Decode call. A sync.Map is used rather
// than a mutex-guarded map: lookups vastly outnumber insertions once a
// program's working set of types has been seen, which is exactly the
// read-mostly access pattern sync.Map is built for.
var typeCache sync.Map // typekey -> *typeinfo

type typeinfo struct {
	decoder    decoder
	decoderErr error // error from makeDecoder
	writer     writer
	writerErr  error // error from makeWriter
}

// tags is the schema a Go struct field presents to the codec. RLP itself
// carries no type tags on the wire, so this is the only place that
// information can come from.
type tags struct {
	// rlp:"nil" controls whether empty input results in a nil pointer.
	nilOK bool

	// nilKind controls whether a nil pointer is encoded/decoded as an
	// empty string or an empty list.
	nilKind Kind

	// rlp:"tail" controls whether this field swallows additional list
	// elements. It can only be set for the last field, which must be
	// of slice type.
	tail bool

	// rlp:"-" ignores fields.
	ignored bool

	// rlp:"?" omits this field from the encoding entirely when it is nil.
	// Fields like this must be at the end of the struct.
	omittedIfNil bool
}

// typekey is the key of a type in typeCache. The tag set is part of the key
// because the same Go type can need a different decoder/writer depending on
// which struct field it was reached through (e.g. a plain *big.Int field vs.
// one tagged rlp:"nil").
type typekey struct {
	reflect.Type
	tags
}

type decoder func(*Stream, reflect.Value) error

type writer func(reflect.Value, *encBuffer) error

func cachedDecoder(typ reflect.Type) (decoder, error) {
	info := cachedTypeInfo(typ, tags{})
	return info.decoder, info.decoderErr
}

func cachedWriter(typ reflect.Type) (writer, error) {
	info := cachedTypeInfo(typ, tags{})
	return info.writer, info.writerErr
}

func cachedTypeInfo(typ reflect.Type, tags tags) *typeinfo {
	if v, ok := typeCache.Load(typekey{typ, tags}); ok {
		return v.(*typeinfo)
	}
	return cachedTypeInfo1(typ, tags)
}

// cachedTypeInfo1 generates decoder/writer functions for typ and stores
// them under key. Before recursing into generate, it reserves the slot
// with a placeholder: a struct that refers to itself through a pointer
// field (a linked-list node, say) would otherwise recurse into
// cachedTypeInfo1 forever while generating its own field's decoder.
// LoadOrStore makes the reservation atomic, so two goroutines racing to
// generate the same type's info can't both win and duplicate the work.
func cachedTypeInfo1(typ reflect.Type, tags tags) *typeinfo {
	key := typekey{typ, tags}
	placeholder := new(typeinfo)
	actual, loaded := typeCache.LoadOrStore(key, placeholder)
	info := actual.(*typeinfo)
	if loaded {
		return info
	}
	info.generate(typ, tags)
	return info
}

type field struct {
	index int
	info  *typeinfo
}

// structFields reflects over typ's exported fields, parsing the rlp
// struct tag on each, and returns the ones that are not rlp:"-".
func structFields(typ reflect.Type) ([]field, error) {
	exportedIdx := make([]int, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		if typ.Field(i).PkgPath == "" {
			exportedIdx = append(exportedIdx, i)
		}
	}
	if len(exportedIdx) == 0 {
		return nil, nil
	}
	lastExported := exportedIdx[len(exportedIdx)-1]

	fields := make([]field, 0, len(exportedIdx))
	for _, i := range exportedIdx {
		ts, err := parseStructTag(typ, i, i == lastExported)
		if err != nil {
			return nil, err
		}
		if ts.ignored {
			continue
		}
		fields = append(fields, field{i, cachedTypeInfo1(typ.Field(i).Type, ts)})
	}
	return fields, nil
}

type structFieldError struct {
	typ   reflect.Type
	field int
	err   error
}

func (e structFieldError) Error() string {
	return fmt.Sprintf("%v (struct field %v.%s)", e.err, e.typ, e.typ.Field(e.field).Name)
}

type structTagError struct {
	typ             reflect.Type
	field, tag, err string
}

func (e structTagError) Error() string {
	return fmt.Sprintf("rlp: invalid struct tag %q for %v.%s (%s)", e.tag, e.typ, e.field, e.err)
}

// nilKindTags maps the two tag spellings that pin down a concrete nil
// representation to the Kind they force; "nil" alone is resolved per
// field type by defaultNilKind instead.
var nilKindTags = map[string]Kind{
	"nilString": String,
	"nilList":   List,
}

func parseStructTag(typ reflect.Type, fieldIdx int, isLastExported bool) (tags, error) {
	f := typ.Field(fieldIdx)
	var ts tags
	for _, part := range strings.Split(f.Tag.Get("rlp"), ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
			continue
		case part == "-":
			ts.ignored = true
		case part == "nil" || part == "nilString" || part == "nilList":
			if f.Type.Kind() != reflect.Ptr {
				return ts, structTagError{typ, f.Name, part, "field is not a pointer"}
			}
			ts.nilOK = true
			if kind, pinned := nilKindTags[part]; pinned {
				ts.nilKind = kind
			} else {
				ts.nilKind = defaultNilKind(f.Type.Elem())
			}
		case part == "tail":
			if !isLastExported {
				return ts, structTagError{typ, f.Name, part, "must be on last field"}
			}
			if f.Type.Kind() != reflect.Slice {
				return ts, structTagError{typ, f.Name, part, "field type is not slice"}
			}
			ts.tail = true
		case part == "?":
			ts.omittedIfNil = true
		default:
			return ts, fmt.Errorf("rlp: unknown struct tag %q on %v.%s", part, typ, f.Name)
		}
	}
	return ts, nil
}

func (i *typeinfo) generate(typ reflect.Type, tags tags) {
	i.decoder, i.decoderErr = makeDecoder(typ, tags)
	i.writer, i.writerErr = makeWriter(typ, tags)
	if tags.omittedIfNil && typ.Kind() == reflect.Ptr {
		if i.decoderErr == nil {
			i.decoder = omitEmptyDecoder(typ, i.decoder)
		}
		if i.writerErr == nil {
			i.writer = omitEmptyWriter(i.writer)
		}
	}
}

// omitEmptyDecoder adapts decoder for an rlp:"?" pointer field: reaching
// the end of the enclosing list where this field would have been is not
// an error, it means the field was omitted, so the field is left nil.
func omitEmptyDecoder(typ reflect.Type, decoder decoder) decoder {
	zero := reflect.Zero(typ)
	return func(s *Stream, val reflect.Value) error {
		if err := decoder(s, val); err != nil {
			if err == EOL {
				val.Set(zero)
				return nil
			}
			return err
		}
		return nil
	}
}

// omitEmptyWriter adapts writer for an rlp:"?" pointer field: a nil
// pointer contributes nothing to the output at all, rather than the
// usual empty-string/empty-list placeholder a plain pointer field gets.
func omitEmptyWriter(writer writer) writer {
	return func(val reflect.Value, w *encBuffer) error {
		if val.IsNil() {
			return nil
		}
		return writer(val, w)
	}
}

// defaultNilKind determines whether a nil pointer to typ encodes/decodes
// as an empty string or empty list, for fields tagged rlp:"nil" without
// pinning the representation explicitly.
func defaultNilKind(typ reflect.Type) Kind {
	switch k := typ.Kind(); {
	case isUint(k), k == reflect.String, k == reflect.Bool, isByteArray(typ):
		return String
	default:
		return List
	}
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isByteArray(typ reflect.Type) bool {
	return (typ.Kind() == reflect.Slice || typ.Kind() == reflect.Array) && isByte(typ.Elem())
}
