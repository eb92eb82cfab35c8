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

// TestProxyOrdinals decodes the set-theoretic definition of the first
// three ordinals, [[], [[]], [[], [[]]]], and checks that a Proxy's
// Cursor exposes its three top-level children without decoding into
// any concrete shape.
func TestProxyOrdinals(t *testing.T) {
	var p Proxy
	if err := DecodeBytes(unhex("C7C0C1C0C3C0C1C0"), &p); err != nil {
		t.Fatal(err)
	}
	c := p.Cursor()
	if n := c.ValueCount(); n != 3 {
		t.Fatalf("got ValueCount() = %d, want 3", n)
	}
	want := []string{"C0", "C1C0", "C3C0C1C0"}
	for i, w := range want {
		v, ok := c.Next()
		if !ok {
			t.Fatalf("child %d: Next() returned false", i)
		}
		if got := bytesToHex(v); got != w {
			t.Errorf("child %d: got %s, want %s", i, got, w)
		}
	}
	if _, ok := c.Next(); ok {
		t.Fatal("Next() should report exhaustion after 3 children")
	}
}

func TestProxyLeafCursor(t *testing.T) {
	var p Proxy
	if err := DecodeBytes(unhex("83646F67"), &p); err != nil {
		t.Fatal(err)
	}
	c := p.Cursor()
	if n := c.ValueCount(); n != 1 {
		t.Fatalf("got ValueCount() = %d, want 1 for a leaf", n)
	}
	v, ok := c.Next()
	if !ok || bytesToHex(v) != "83646F67" {
		t.Fatalf("got %x, ok=%v", v, ok)
	}
}

func TestProxyRoundTrip(t *testing.T) {
	raw := unhex("C7C0C1C0C3C0C1C0")
	var p Proxy
	if err := DecodeBytes(raw, &p); err != nil {
		t.Fatal(err)
	}
	out, err := EncodeToBytes(p)
	if err != nil {
		t.Fatal(err)
	}
	if bytesToHex(out) != bytesToHex(raw) {
		t.Fatalf("got %x, want %x", out, raw)
	}
}

func TestProxyKinds(t *testing.T) {
	// a two-slot list: one "dog" leaf, one empty slot.
	var p Proxy
	if err := DecodeBytes(unhex("C583646F6780"), &p); err != nil {
		t.Fatal(err)
	}
	kinds, err := p.Cursor().Kinds()
	if err != nil {
		t.Fatal(err)
	}
	if !kinds.Contains(String) || kinds.Cardinality() != 1 {
		t.Fatalf("got %v, want a single String kind", kinds)
	}
}
