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
	"math/big"
	"testing"
)

func TestBigIntNonCanonical(t *testing.T) {
	var got big.Int
	// 82 00 80: a 2-byte string with a leading zero byte.
	err := DecodeBytes(unhex("820080"), &got)
	if !errors.Is(err, ErrCanonInt) {
		t.Fatalf("got %v, want ErrCanonInt", err)
	}
}

func TestBigIntZero(t *testing.T) {
	var got big.Int
	if err := DecodeBytes(unhex("80"), &got); err != nil {
		t.Fatal(err)
	}
	if got.Sign() != 0 {
		t.Fatalf("got %v, want 0", &got)
	}
}

func TestBigIntPointer(t *testing.T) {
	var got *big.Int
	if err := DecodeBytes(unhex("820400"), &got); err != nil {
		t.Fatal(err)
	}
	if got.Cmp(big.NewInt(1024)) != 0 {
		t.Fatalf("got %v, want 1024", got)
	}
}
