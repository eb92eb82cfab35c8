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

/*
Package rlp implements the RLP serialization format described by the
Ethereum Yellow Paper, Appendix B. RLP encodes exactly two wire
categories: byte strings and lists of further RLP values, recursively.

Encoding rules

The RLP encoding rules are defined as follows:

  - If the value is an unsigned integer, it is converted into its
    big-endian binary representation with no leading zero bytes and
    treated as a byte string below. The integer 0 is treated as the
    empty byte string.
  - If the value is a byte array, it is taken as-is.
  - If the value is a byte string containing a single byte less than
    0x80, that byte is its own encoding.
  - If the value is a byte string with length 0-55, the encoding is a
    single byte with value 0x80+length, followed by the byte string.
  - If the value is a byte string with length >55, the encoding is a
    byte with value 0xB7+lengthOfLength, followed by the length,
    followed by the byte string.
  - If the value is a list, the concatenation of the RLP encodings of
    its items is encoded with a list header. The header byte for a
    list with body length 0-55 is 0xC0+length; a longer list uses
    0xF7+lengthOfLength the same way byte strings do.

Struct tags

As with other encoding packages, the field tag "-" ignores fields:

	type StructWithIgnoredField struct{
		Ignored   uint `rlp:"-"`
		Field     uint
	}

Go struct values are encoded as RLP lists containing the values of
their exported fields, in order. Unexported fields are ignored.

The "tail" tag, which may only be used on the last exported
struct field, allows slurping up any excess list elements into a
slice:

	type StructWithTail struct{
		Field1 uint
		Tail   []string `rlp:"tail"`
	}

The "nil", "nilString" and "nilList" tags apply to pointer
fields and specify how a nil pointer is encoded and how the decoder
behaves when the input contains a zero-sized value. "nil" infers the
encoding behavior from the pointed-to type, which is the default
behavior. "nilString" always uses the empty string encoding
and "nilList" always uses the empty list encoding.

The "optional" (here spelled "?") tag marks a field as not present in
the RLP when nil and every later field is also nil; it must be on a
trailing run of fields.

Proxy decoding

RLP carries no type tags, so union-like (variant) values cannot be
reconstructed by shape matching. Decoding such a value into a [Proxy]
instead preserves the raw sub-encoding and its parsed tree, letting
application code pick the variant explicitly; see the [Proxy] example.
*/
package rlp
