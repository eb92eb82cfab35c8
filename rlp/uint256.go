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
	"reflect"

	"github.com/holiman/uint256"
)

var uint256Typ = reflect.TypeOf(uint256.Int{})

// writeUint256NoPtr and writeUint256Ptr give *uint256.Int and
// uint256.Int the same biguint adapter treatment as *big.Int, without
// the heap allocation math/big requires for the 256-bit values that
// dominate Ethereum transaction and receipt encoding.
func writeUint256NoPtr(val reflect.Value, w *encBuffer) error {
	i := val.Interface().(uint256.Int)
	w.writeBytes(i.Bytes())
	return nil
}

func writeUint256Ptr(val reflect.Value, w *encBuffer) error {
	ptr := val.Interface().(*uint256.Int)
	if ptr == nil {
		w.str = append(w.str, 0x80)
		return nil
	}
	w.writeBytes(ptr.Bytes())
	return nil
}

func decodeUint256NoPtr(s *Stream, val reflect.Value) error {
	i, err := s.uint256()
	if err != nil {
		return wrapStreamError(err, val.Type())
	}
	val.Set(reflect.ValueOf(*i))
	return nil
}

func decodeUint256(s *Stream, val reflect.Value) error {
	i, err := s.uint256()
	if err != nil {
		return wrapStreamError(err, val.Type())
	}
	val.Set(reflect.ValueOf(i))
	return nil
}

func (s *Stream) uint256() (*uint256.Int, error) {
	b, err := s.Bytes()
	if err != nil {
		return nil, err
	}
	if len(b) > 0 && b[0] == 0 {
		return nil, ErrCanonInt
	}
	if len(b) > 32 {
		return nil, errUint256Large
	}
	i := new(uint256.Int)
	i.SetBytes(b)
	return i, nil
}
