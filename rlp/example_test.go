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

package rlp_test

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/m4tsuri/gorlp/rlp"
)

// legacyTxRecord mirrors a pre-EIP-155 signed transaction record: nine
// fields, no chain ID. GasPrice and Value use the biguint adapter so
// that zero encodes to the empty string rather than a literal "0".
type legacyTxRecord struct {
	Nonce    uint64
	GasPrice *big.Int
	GasLimit uint64
	To       [20]byte
	Value    *big.Int
	Data     []byte
	V        uint64
	R        [32]byte
	S        [32]byte
}

func ExampleEncodeToBytes_transactionRecord() {
	to := [20]byte{0xa3, 0xbe, 0xd4, 0xe1, 0xc7, 0x5d, 0x00, 0xfa, 0x6f, 0x4e,
		0x5e, 0x69, 0x22, 0xdb, 0x72, 0x61, 0xb5, 0xe9, 0xac, 0xd2}
	tx := legacyTxRecord{
		Nonce:    0xa5,
		GasPrice: new(big.Int).SetBytes([]byte{0x2e, 0x90, 0xed, 0xd0, 0x00}),
		GasLimit: 0x12bc2,
		To:       to,
		Value:    big.NewInt(0),
		Data:     []byte{0xa9, 0x05, 0x9c, 0xbb},
		V:        0x26,
	}
	enc, err := rlp.EncodeToBytes(tx)
	if err != nil {
		panic(err)
	}

	var decoded legacyTxRecord
	if err := rlp.DecodeBytes(enc, &decoded); err != nil {
		panic(err)
	}
	fmt.Println(decoded.Nonce == tx.Nonce &&
		decoded.GasPrice.Cmp(tx.GasPrice) == 0 &&
		decoded.GasLimit == tx.GasLimit &&
		decoded.To == tx.To &&
		decoded.Value.Cmp(tx.Value) == 0 &&
		bytes.Equal(decoded.Data, tx.Data) &&
		decoded.V == tx.V)
	// Output:
	// true
}

// ExampleFields_eip155ChainID shows the Fields helper used for a record whose shape
// depends on protocol version: a chain ID is present only on EIP-155
// transactions, and its absence must be distinguishable from chain ID
// zero.
func ExampleFields_eip155ChainID() {
	nonce, gasPrice, gasLimit := uint64(9), big.NewInt(20000000000), uint64(21000)
	to := [20]byte{0x35, 0x35, 0x35, 0x35, 0x35, 0x35, 0x35, 0x35, 0x35, 0x35,
		0x35, 0x35, 0x35, 0x35, 0x35, 0x35, 0x35, 0x35, 0x35, 0x35}
	value := big.NewInt(1000000000000000000)
	chainID := big.NewInt(1)

	f := &rlp.Fields{
		Required: []any{&nonce, &gasPrice, &gasLimit, &to, &value, []byte{}},
		Optional: []any{chainID, (*big.Int)(nil), (*big.Int)(nil)},
	}
	enc, err := rlp.EncodeToBytes(f)
	if err != nil {
		panic(err)
	}

	var (
		gotNonce, gotGasLimit     uint64
		gotGasPrice, gotValue     *big.Int
		gotTo                     [20]byte
		gotData                   []byte
		gotChainID, gotR, gotS    *big.Int
	)
	out := &rlp.Fields{
		Required: []any{&gotNonce, &gotGasPrice, &gotGasLimit, &gotTo, &gotValue, &gotData},
		Optional: []any{rlp.Nillable(&gotChainID), rlp.Nillable(&gotR), rlp.Nillable(&gotS)},
	}
	if err := rlp.DecodeBytes(enc, out); err != nil {
		panic(err)
	}
	fmt.Println(gotNonce, gotGasPrice.Cmp(gasPrice) == 0, gotGasLimit, gotChainID.Cmp(chainID) == 0, gotR, gotS)
	// Output:
	// 9 true 21000 true <nil> <nil>
}
