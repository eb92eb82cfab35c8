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
	"testing"

	"github.com/holiman/uint256"
)

func TestUint256RoundTrip(t *testing.T) {
	want := uint256.NewInt(1024)
	out, err := EncodeToBytes(want)
	if err != nil {
		t.Fatal(err)
	}
	var got uint256.Int
	if err := DecodeBytes(out, &got); err != nil {
		t.Fatal(err)
	}
	if !got.Eq(want) {
		t.Fatalf("got %v, want %v", &got, want)
	}
}

func TestUint256TooLarge(t *testing.T) {
	// a 33-byte string, one byte too many for a 256-bit integer.
	var got uint256.Int
	payload := make([]byte, 33)
	payload[0] = 1
	enc := append([]byte{0xA1}, payload...)
	err := DecodeBytes(enc, &got)
	if !errors.Is(err, errUint256Large) {
		t.Fatalf("got %v, want errUint256Large", err)
	}
}

func TestUint256NonCanonical(t *testing.T) {
	var got uint256.Int
	err := DecodeBytes(unhex("820080"), &got)
	if !errors.Is(err, ErrCanonInt) {
		t.Fatalf("got %v, want ErrCanonInt", err)
	}
}
