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
	"math/big"
	"reflect"
)

var bigInt = reflect.TypeOf(big.Int{})

// writeBigIntPtr and writeBigIntNoPtr implement the arbitrary-precision
// unsigned integer adapter of spec §4.6: encode via the same minimal
// big-endian rule as fixed-width integers (§4.2), zero encoding to the
// empty byte string.
func writeBigIntPtr(val reflect.Value, w *encBuffer) error {
	ptr := val.Interface().(*big.Int)
	if ptr == nil {
		w.str = append(w.str, 0x80)
		return nil
	}
	return writeBigInt(ptr, w)
}

func writeBigIntNoPtr(val reflect.Value, w *encBuffer) error {
	i := val.Interface().(big.Int)
	return writeBigInt(&i, w)
}

func writeBigInt(i *big.Int, w *encBuffer) error {
	if i.Sign() == -1 {
		return fmt.Errorf("rlp: cannot encode negative *big.Int")
	}
	w.writeBytes(i.Bytes())
	return nil
}

func decodeBigInt(s *Stream, val reflect.Value) error {
	i, err := s.bigInt()
	if err != nil {
		return wrapStreamError(err, val.Type())
	}
	val.Set(reflect.ValueOf(i))
	return nil
}

func decodeBigIntNoPtr(s *Stream, val reflect.Value) error {
	i, err := s.bigInt()
	if err != nil {
		return wrapStreamError(err, val.Type())
	}
	val.Set(reflect.ValueOf(*i))
	return nil
}

// bigInt reads the next string value and interprets it as an
// arbitrary-precision unsigned integer. An empty string decodes to
// zero. A leading zero byte is rejected as non-minimal (ErrCanonInt),
// matching the §4.2 rule applied to fixed-width integers.
func (s *Stream) bigInt() (*big.Int, error) {
	b, err := s.Bytes()
	if err != nil {
		return nil, err
	}
	if len(b) > 0 && b[0] == 0 {
		return nil, ErrCanonInt
	}
	return new(big.Int).SetBytes(b), nil
}
