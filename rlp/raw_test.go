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

import "testing"

func TestSplit(t *testing.T) {
	k, content, rest, err := Split(unhex("83646F6701"))
	if err != nil {
		t.Fatal(err)
	}
	if k != String {
		t.Fatalf("got kind %v, want String", k)
	}
	if string(content) != "dog" {
		t.Fatalf("got content %q, want %q", content, "dog")
	}
	if len(rest) != 1 || rest[0] != 0x01 {
		t.Fatalf("got rest %x, want 01", rest)
	}
}

func TestSplitList(t *testing.T) {
	content, rest, err := SplitList(unhex("C20102"))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "\x01\x02" {
		t.Fatalf("got content %x", content)
	}
	if len(rest) != 0 {
		t.Fatalf("got rest %x, want none", rest)
	}
	if _, _, err := SplitList(unhex("83646F67")); err != ErrExpectedList {
		t.Fatalf("got %v, want ErrExpectedList", err)
	}
}

func TestCountValues(t *testing.T) {
	n, err := CountValues(unhex("C0C1C0C3C0C1C0"))
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("got %d, want 3", n)
	}
}

func TestStringSize(t *testing.T) {
	tests := []struct {
		s    string
		want uint64
	}{
		{"", 1},
		{"a", 1},
		{"dog", 4},
	}
	for _, test := range tests {
		if got := StringSize(test.s); got != test.want {
			t.Errorf("StringSize(%q) = %d, want %d", test.s, got, test.want)
		}
	}
}

func TestListSize(t *testing.T) {
	if got := ListSize(3); got != 4 {
		t.Errorf("ListSize(3) = %d, want 4", got)
	}
}

func TestAppendUint64(t *testing.T) {
	b := AppendUint64(nil, 1024)
	if bytesToHex(b) != "820400" {
		t.Fatalf("got %x", b)
	}
}

func TestRawValueRoundTrip(t *testing.T) {
	var raw RawValue
	if err := DecodeBytes(unhex("83646F67"), &raw); err != nil {
		t.Fatal(err)
	}
	out, err := EncodeToBytes(raw)
	if err != nil {
		t.Fatal(err)
	}
	if bytesToHex(out) != "83646F67" {
		t.Fatalf("got %x", out)
	}
}
