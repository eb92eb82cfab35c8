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
	"io"
	"reflect"
)

// Encoder is implemented by types that require custom RLP encoding rules,
// or need to encode private fields.
type Encoder interface {
	// EncodeRLP should write the RLP encoding of its receiver to w. If the
	// implementation is a pointer method, it may also be called for nil
	// pointers.
	EncodeRLP(io.Writer) error
}

var encoderInterface = reflect.TypeOf(new(Encoder)).Elem()

// EncodeToBytes returns the RLP encoding of val. This is the structural
// encoder of spec §4.3: it drives a traversal of val (the "host value")
// and concatenates the byte-string/list framing produced for each node.
//
// Please see package-level documentation for the description of rules
// for supported types.
func EncodeToBytes(val interface{}) ([]byte, error) {
	buf := getEncBuffer()
	defer encBufferPool.Put(buf)

	if err := buf.encode(val); err != nil {
		return nil, err
	}
	return buf.makeBytes(), nil
}

// EncodeToReader returns a reader from which the RLP encoding of val can
// be read. The returned size is the total size of the encoded data.
func EncodeToReader(val interface{}) (size int, r io.Reader, err error) {
	buf := getEncBuffer()
	if err := buf.encode(val); err != nil {
		encBufferPool.Put(buf)
		return 0, nil, err
	}
	return buf.size(), &encReader{buf: buf}, nil
}

// Encode writes the RLP encoding of val to w. Note that Encode may
// perform several small writes to w, one per list header and per run of
// string data between headers.
func Encode(w io.Writer, val interface{}) error {
	if buf, ok := w.(EncoderBuffer); ok {
		return buf.buf.encode(val)
	}
	buf := getEncBuffer()
	defer encBufferPool.Put(buf)
	if err := buf.encode(val); err != nil {
		return err
	}
	return buf.writeTo(w)
}

func (buf *encBuffer) encode(val interface{}) error {
	rval := reflect.ValueOf(val)
	writer, err := cachedWriter(rval.Type())
	if err != nil {
		return err
	}
	return writer(rval, buf)
}

// encReader is the io.Reader returned by EncodeToReader. It releases its
// encbuf at EOF.
type encReader struct {
	buf    *encBuffer // the buffer we're reading from. this is nil when we're at EOF.
	lhpos  int        // index of list header that is being written
	strpos int        // current position in string buffer
	piece  []byte     // next piece to be written
}

func (r *encReader) Read(b []byte) (n int, err error) {
	for {
		if r.piece = r.next(); r.piece == nil {
			if r.buf != nil {
				encBufferPool.Put(r.buf)
				r.buf = nil
			}
			return n, io.EOF
		}
		nn := copy(b[n:], r.piece)
		n += nn
		if nn < len(r.piece) {
			r.piece = r.piece[nn:]
			return n, nil
		}
		r.piece = nil
		if n == len(b) {
			return n, nil
		}
	}
}

func (r *encReader) next() []byte {
	switch {
	case r.buf == nil:
		return nil
	case r.piece != nil:
		p := r.piece
		r.piece = nil
		return p
	case r.lhpos < len(r.buf.lheads):
		head := r.buf.lheads[r.lhpos]
		if r.strpos < head.offset {
			// string data before the header
			p := r.buf.str[r.strpos:head.offset]
			r.strpos = head.offset
			return p
		}
		r.lhpos++
		return head.encode(r.buf.sizebuf[:])
	case r.strpos < len(r.buf.str):
		p := r.buf.str[r.strpos:]
		r.strpos = len(r.buf.str)
		return p
	}
	return nil
}

// ---- writer function generation (the reflection-walker substitute) ----

func makeWriter(typ reflect.Type, ts tags) (writer, error) {
	kind := typ.Kind()
	switch {
	case typ == rawValueType:
		return writeRawValue, nil
	case typ.AssignableTo(reflect.PtrTo(bigInt)):
		return writeBigIntPtr, nil
	case typ.AssignableTo(bigInt):
		return writeBigIntNoPtr, nil
	case typ == uint256Typ:
		return writeUint256NoPtr, nil
	case typ == reflect.PtrTo(uint256Typ):
		return writeUint256Ptr, nil
	case kind == reflect.Ptr:
		return makePtrWriter(typ, ts)
	case reflect.PtrTo(typ).Implements(encoderInterface):
		return makeEncoderWriter(typ)
	case isUint(kind):
		return writeUint, nil
	case kind == reflect.Bool, kind == reflect.Float32, kind == reflect.Float64,
		kind == reflect.Int, kind == reflect.Int8, kind == reflect.Int16,
		kind == reflect.Int32, kind == reflect.Int64, kind == reflect.Map:
		return nil, &UnsupportedTypeError{typ}
	case kind == reflect.String:
		return writeString, nil
	case kind == reflect.Slice && isByte(typ.Elem()):
		return writeBytes, nil
	case kind == reflect.Array && isByte(typ.Elem()):
		return writeByteArray, nil
	case kind == reflect.Slice || kind == reflect.Array:
		return makeSliceWriter(typ, ts)
	case kind == reflect.Struct:
		return makeStructWriter(typ)
	case kind == reflect.Interface:
		return writeInterface, nil
	default:
		return nil, &UnsupportedTypeError{typ}
	}
}

func writeRawValue(val reflect.Value, w *encBuffer) error {
	w.str = append(w.str, val.Bytes()...)
	return nil
}

func writeUint(val reflect.Value, w *encBuffer) error {
	w.writeUint(val.Uint())
	return nil
}

func writeBytes(val reflect.Value, w *encBuffer) error {
	w.writeBytes(val.Bytes())
	return nil
}

func writeByteArray(val reflect.Value, w *encBuffer) error {
	if !val.CanAddr() {
		// Slice requires the value to be addressable.
		// Make it addressable by copying.
		addressable := reflect.New(val.Type()).Elem()
		addressable.Set(val)
		val = addressable
	}
	size := val.Len()
	slice := val.Slice(0, size).Bytes()
	w.writeBytes(slice)
	return nil
}

func writeString(val reflect.Value, w *encBuffer) error {
	s := val.String()
	w.writeString(s)
	return nil
}

func writeInterface(val reflect.Value, w *encBuffer) error {
	if val.IsNil() {
		return &UnsupportedTypeError{val.Type()}
	}
	eval := val.Elem()
	writer, err := cachedWriter(eval.Type())
	if err != nil {
		return err
	}
	return writer(eval, w)
}

func makeSliceWriter(typ reflect.Type, ts tags) (writer, error) {
	etypeinfo := cachedTypeInfo1(typ.Elem(), tags{})
	if etypeinfo.writerErr != nil {
		return nil, etypeinfo.writerErr
	}
	var wfn writer
	if ts.tail {
		// This is for struct tail slices.
		wfn = func(val reflect.Value, w *encBuffer) error {
			vlen := val.Len()
			for i := 0; i < vlen; i++ {
				if err := etypeinfo.writer(val.Index(i), w); err != nil {
					return err
				}
			}
			return nil
		}
	} else {
		wfn = func(val reflect.Value, w *encBuffer) error {
			vlen := val.Len()
			if vlen == 0 {
				w.str = append(w.str, 0xC0)
				return nil
			}
			listOffset := w.list()
			for i := 0; i < vlen; i++ {
				if err := etypeinfo.writer(val.Index(i), w); err != nil {
					return err
				}
			}
			w.listEnd(listOffset)
			return nil
		}
	}
	return wfn, nil
}

func makeStructWriter(typ reflect.Type) (writer, error) {
	fields, err := structFields(typ)
	if err != nil {
		return nil, err
	}
	for _, f := range fields {
		if f.info.writerErr != nil {
			return nil, structFieldError{typ, f.index, f.info.writerErr}
		}
	}
	writer := func(val reflect.Value, w *encBuffer) error {
		lh := w.list()
		for _, f := range fields {
			if err := f.info.writer(val.Field(f.index), w); err != nil {
				return err
			}
		}
		w.listEnd(lh)
		return nil
	}
	return writer, nil
}

func makePtrWriter(typ reflect.Type, ts tags) (writer, error) {
	nilKind := defaultNilKind(typ.Elem())
	if ts.nilOK {
		nilKind = ts.nilKind
	}
	nilEncoding := byte(0xC0)
	if nilKind == String {
		nilEncoding = 0x80
	}

	etypeinfo := cachedTypeInfo1(typ.Elem(), tags{})
	if etypeinfo.writerErr != nil {
		return nil, etypeinfo.writerErr
	}

	writer := func(val reflect.Value, w *encBuffer) error {
		if ev := val.Elem(); ev.IsValid() {
			return etypeinfo.writer(ev, w)
		}
		w.str = append(w.str, nilEncoding)
		return nil
	}
	return writer, nil
}

func makeEncoderWriter(typ reflect.Type) (writer, error) {
	if typ.Implements(encoderInterface) {
		return func(val reflect.Value, w *encBuffer) error {
			if val.Kind() == reflect.Ptr && val.IsNil() {
				w.str = append(w.str, 0xC0)
				return nil
			}
			return val.Interface().(Encoder).EncodeRLP(w)
		}, nil
	}
	w := func(val reflect.Value, w *encBuffer) error {
		if !val.CanAddr() {
			// package json simply doesn't call EncodeRLP for this case, but reflect
			// demands an addressable value to call a pointer method.
			return &UnsupportedTypeError{typ}
		}
		return val.Addr().Interface().(Encoder).EncodeRLP(w)
	}
	return w, nil
}

func isByte(typ reflect.Type) bool {
	return typ.Kind() == reflect.Uint8 && !typ.Implements(encoderInterface)
}
