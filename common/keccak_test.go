// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import (
	"fmt"
	"testing"
)

func TestKeccak256_KnownHashes(t *testing.T) {
	tests := map[string]string{
		"":    "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		"abc": "0x4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45",
	}
	for input, want := range tests {
		if got := Keccak256([]byte(input)).String(); got != want {
			t.Errorf("unexpected hash for %q, wanted %v, got %v", input, want, got)
		}
	}
}

func TestKeccak256_HashesConcatenationOfInputs(t *testing.T) {
	want := Keccak256([]byte{1, 2, 3, 4})
	tests := [][][]byte{
		{{1, 2, 3, 4}},
		{{1, 2}, {3, 4}},
		{{1}, {2}, {3}, {4}},
		{nil, {1, 2, 3, 4}, {}},
	}
	for _, test := range tests {
		if got := Keccak256(test...); got != want {
			t.Errorf("unexpected hash for %v, wanted %v, got %v", test, want, got)
		}
	}
}

func TestKeccak256_NoInputIsHashOfEmptyString(t *testing.T) {
	if want, got := Keccak256([]byte{}), Keccak256(); want != got {
		t.Errorf("unexpected hash, wanted %v, got %v", want, got)
	}
}

func BenchmarkKeccak256(b *testing.B) {
	for i := 1; i < 1<<16; i <<= 3 {
		b.Run(fmt.Sprintf("size=%d", i), func(b *testing.B) {
			data := make([]byte, i)
			for i := 0; i < b.N; i++ {
				Keccak256(data)
			}
		})
	}
}
