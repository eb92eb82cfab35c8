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

	mapset "github.com/deckarep/golang-set/v2"
)

// Proxy bundles a decoded sub-value's original byte slice together with
// a lazily-built view of its shape, so that application code can pick a
// union/variant apart after the fact instead of the decoder guessing at
// it by matching shapes (which RLP's tag-free wire format does not
// support reliably). Decode a field as Proxy wherever the target schema
// is a union.
//
// A well-known example, mirrored from go-ethereum's own trie node
// decoding: a two-item list decodes to a short (leaf/extension) trie
// node, while a seventeen-item list decodes to a full/branch node.
// Neither shape is distinguishable by field count alone without
// constructing the intended struct, so the caller inspects a Cursor
// first and only then decodes into the concrete type:
//
//	var p rlp.Proxy
//	if err := rlp.DecodeBytes(raw, &p); err != nil { ... }
//	switch c := p.Cursor(); c.ValueCount() {
//	case 2:
//		var leaf shortNode
//		err = rlp.DecodeBytes(p.Raw(), &leaf)
//	case 17:
//		var full fullNode
//		err = rlp.DecodeBytes(p.Raw(), &full)
//	}
type Proxy struct {
	raw RawValue
}

// Raw returns the original byte slice that produced this sub-encoding,
// header included.
func (p Proxy) Raw() RawValue {
	return p.raw
}

// Cursor returns a fresh cursor over the top-level children of the
// decoded value: for a list, its immediate elements in order; for a
// byte string (or single-byte value), a single-element cursor over the
// value itself, matching spec §4.5's "single-element cursor" rule.
func (p Proxy) Cursor() *Cursor {
	k, content, _, err := Split(p.raw)
	if err != nil || k != List {
		return &Cursor{items: [][]byte{p.raw}}
	}
	items, splitErr := splitRawItems(content)
	if splitErr != nil {
		return &Cursor{items: nil, err: splitErr}
	}
	return &Cursor{items: items}
}

// DecodeRLP implements Decoder. It consumes exactly one value (leaf or
// list, header included) without interpreting its shape.
func (p *Proxy) DecodeRLP(s *Stream) error {
	r, err := s.Raw()
	if err != nil {
		return err
	}
	p.raw = r
	return nil
}

// EncodeRLP implements Encoder, re-emitting the captured raw encoding
// verbatim. This makes Proxy usable as a transparent pass-through field
// for the encode(decode(b)) == b half of spec §8's round-trip property.
func (p Proxy) EncodeRLP(w io.Writer) error {
	_, err := w.Write(p.raw)
	return err
}

// Cursor walks the ordered top-level children of a Proxy's sub-tree,
// popping one child per call to Next. It corresponds to the RLP tree
// cursor of spec §4.5.
type Cursor struct {
	items [][]byte
	pos   int
	err   error
}

// ValueCount returns the number of children not yet consumed.
func (c *Cursor) ValueCount() int {
	if c == nil {
		return 0
	}
	return len(c.items) - c.pos
}

// Next returns the raw encoding (header included) of the next child and
// advances the cursor. The second return value is false once every
// child has been consumed.
func (c *Cursor) Next() (RawValue, bool) {
	if c == nil || c.pos >= len(c.items) {
		return nil, false
	}
	v := c.items[c.pos]
	c.pos++
	return v, true
}

// Err returns any error encountered while splitting the underlying
// bytes into children, for a Proxy whose raw field was set by hand
// rather than produced by DecodeRLP.
func (c *Cursor) Err() error {
	if c == nil {
		return nil
	}
	return c.err
}

// Kinds returns the distinct wire categories among the cursor's
// remaining children, useful for telling a genuinely heterogeneous
// list (mixed leaves and sublists, as in a Merkle branch node's
// sibling slots) from one that merely varies in length.
func (c *Cursor) Kinds() (mapset.Set[Kind], error) {
	kinds := mapset.NewThreadUnsafeSet[Kind]()
	for _, item := range c.items[c.pos:] {
		k, _, _, err := readKind(item)
		if err != nil {
			return nil, err
		}
		kinds.Add(k)
	}
	return kinds, nil
}

func splitRawItems(body []byte) ([][]byte, error) {
	var items [][]byte
	for len(body) > 0 {
		_, tagsize, size, err := readKind(body)
		if err != nil {
			return nil, err
		}
		n := tagsize + size
		items = append(items, body[:n])
		body = body[n:]
	}
	return items, nil
}
