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
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
)

type encTest struct {
	val interface{}
	out string // expected output, in hex
}

var encTests = []encTest{
	// booleans, floats, signed integers and maps are rejected outright;
	// see TestEncodeUnsupportedTypes.

	// integers
	{val: uint64(0), out: "80"},
	{val: uint64(127), out: "7F"},
	{val: uint64(128), out: "8180"},
	{val: uint64(256), out: "820100"},
	{val: uint64(1024), out: "820400"},
	{val: uint64(0xFFFFFFFF), out: "84FFFFFFFF"},

	// big.Int
	{val: big.NewInt(0), out: "80"},
	{val: big.NewInt(1), out: "01"},
	{val: big.NewInt(127), out: "7F"},
	{val: big.NewInt(128), out: "8180"},

	// uint256.Int
	{val: uint256.NewInt(0), out: "80"},
	{val: uint256.NewInt(1024), out: "820400"},

	// byte arrays and slices
	{val: []byte{}, out: "80"},
	{val: []byte{0x7E}, out: "7E"},
	{val: []byte{1, 2, 3}, out: "83010203"},

	// strings
	{val: "", out: "80"},
	{val: "dog", out: "83646F67"},
	{val: "Lorem ipsum dolor sit amet, consectetur adipisicing eli",
		out: "B74C6F72656D20697073756D20646F6C6F722073697420616D65742C20636F6E7365" +
			"637465747572206164697069736963696E6720656C69"},

	// slices
	{val: []uint{}, out: "C0"},
	{val: []uint{1, 2, 3}, out: "C3010203"},
	{val: [][]uint{{1, 2}, {3}}, out: "C5C20102C103"},

	// structs
	{val: simpleStruct{A: 3, B: "foo"}, out: "C50383666F6F"},
}

type simpleStruct struct {
	A uint
	B string
}

func TestEncode(t *testing.T) {
	for i, test := range encTests {
		out, err := EncodeToBytes(test.val)
		if err != nil {
			t.Errorf("test %d: encode error: %v", i, err)
			continue
		}
		if got := bytesToHex(out); got != test.out {
			t.Errorf("test %d: output mismatch: got %s, want %s", i, got, test.out)
		}
	}
}

func TestEncodeToReader(t *testing.T) {
	for i, test := range encTests {
		size, r, err := EncodeToReader(test.val)
		if err != nil {
			t.Errorf("test %d: encode error: %v", i, err)
			continue
		}
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(r); err != nil {
			t.Errorf("test %d: read error: %v", i, err)
			continue
		}
		if buf.Len() != size {
			t.Errorf("test %d: size mismatch: got %d, want %d", i, buf.Len(), size)
		}
		if got := bytesToHex(buf.Bytes()); got != test.out {
			t.Errorf("test %d: output mismatch: got %s, want %s", i, got, test.out)
		}
	}
}

func TestEncodeNegativeBigInt(t *testing.T) {
	_, err := EncodeToBytes(big.NewInt(-1))
	if err == nil {
		t.Fatal("expected error for negative big.Int")
	}
}

// TestEncodeUnsupportedTypes exercises the rejection rule from spec §4.3:
// booleans, floats, signed integers and maps have no RLP representation
// and must fail at encode time with UnsupportedTypeError, rather than
// silently falling back to some ad hoc byte-string encoding. Rejecting
// signed integers outright, rather than through a best-effort adapter,
// is the stricter of the two positions the Design Notes' Open Question
// considers.
func TestEncodeUnsupportedTypes(t *testing.T) {
	tests := []interface{}{
		true,
		float32(1.5),
		float64(1.5),
		int(-1),
		int8(-1),
		int16(-1),
		int32(-1),
		int64(-1),
		map[string]int{"a": 1},
	}
	for _, val := range tests {
		_, err := EncodeToBytes(val)
		if err == nil {
			t.Errorf("EncodeToBytes(%#v): expected error, got none", val)
			continue
		}
		if !errors.Is(err, ErrUnsupportedType) {
			t.Errorf("EncodeToBytes(%#v): got %v, want ErrUnsupportedType", val, err)
		}
	}
}

// TestDecodeUnsupportedTypes mirrors TestEncodeUnsupportedTypes for the
// decode side: a destination of one of these types must also be
// rejected with UnsupportedTypeError, not silently ignored.
func TestDecodeUnsupportedTypes(t *testing.T) {
	var (
		b bool
		f float64
		n int
		m map[string]int
	)
	dests := []interface{}{&b, &f, &n, &m}
	for _, dst := range dests {
		err := DecodeBytes(unhex("80"), dst)
		if !errors.Is(err, ErrUnsupportedType) {
			t.Errorf("DecodeBytes into %T: got %v, want ErrUnsupportedType", dst, err)
		}
	}
}

// the set-theoretic definition of the first three ordinals, [[], [[]], [[], [[]]]],
// encodes to c7 c0 c1 c0 c3 c0 c1 c0.
func TestEncodeSetTheoreticOrdinals(t *testing.T) {
	val := []RawValue{
		{0xC0},
		{0xC1, 0xC0},
		{0xC3, 0xC0, 0xC1, 0xC0},
	}
	out, err := EncodeToBytes(val)
	if err != nil {
		t.Fatal(err)
	}
	if got := bytesToHex(out); got != "C7C0C1C0C3C0C1C0" {
		t.Fatalf("got %s, want C7C0C1C0C3C0C1C0", got)
	}
}

func bytesToHex(b []byte) string {
	const hexdigits = "0123456789ABCDEF"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexdigits[c>>4]
		out[i*2+1] = hexdigits[c&0xF]
	}
	return string(out)
}
