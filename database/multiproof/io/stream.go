// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package io

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/Fantom-foundation/Multiproof/go/common"
	"github.com/Fantom-foundation/Multiproof/go/database/multiproof"
	"github.com/holiman/uint256"
)

// This file provides a compact binary encoding of multiproofs, used for
// archiving witnesses and for transferring them between systems.
//
// Format:
//
//  file   ::= <magic-number> <version> <config> <root> [<entry>]*
//  config ::= <2-byte big-endian depth> <1-byte name length> <name>
//  root   ::= <32-byte hash>
//  entry  ::= 'H' <position> <32-byte hash>
//           | 'A' <position> <64-byte account>
//  position ::= <2-byte big-endian depth> <32-byte big-endian index>
//
// Accounts are encoded using the multiproof's AccountEncoder.

var magicNumber = []byte("MPWITNESS")

const formatVersion = byte(1)

// ErrInvalidFormat is reported for inputs not following the binary format.
const ErrInvalidFormat = common.ConstError("invalid witness format")

// Write encodes the given multiproof into the given output.
func Write(out io.Writer, proof *multiproof.Multiproof) error {
	config := proof.GetConfig()
	if len(config.Name) > 255 {
		return fmt.Errorf("configuration name too long: %d", len(config.Name))
	}

	header := make([]byte, 0, len(magicNumber)+4+len(config.Name)+common.HashSize)
	header = append(header, magicNumber...)
	header = append(header, formatVersion)
	header = binary.BigEndian.AppendUint16(header, config.Depth)
	header = append(header, byte(len(config.Name)))
	header = append(header, config.Name...)
	root := proof.GetHash()
	header = append(header, root[:]...)
	if _, err := out.Write(header); err != nil {
		return err
	}

	encoder := multiproof.AccountEncoder{}
	buffer := make([]byte, 1+2+32+encoder.GetEncodedSize())
	for _, entry := range proof.Entries() {
		binary.BigEndian.PutUint16(buffer[1:], entry.Position.Depth())
		index := entry.Position.Index().Bytes32()
		copy(buffer[3:], index[:])
		var data []byte
		if entry.Account != nil {
			buffer[0] = 'A'
			encoder.Store(buffer[35:], entry.Account)
			data = buffer[:35+encoder.GetEncodedSize()]
		} else {
			buffer[0] = 'H'
			copy(buffer[35:], entry.Hash[:])
			data = buffer[:35+common.HashSize]
		}
		if _, err := out.Write(data); err != nil {
			return err
		}
	}
	return nil
}

// Read decodes a multiproof from the given input. The input is consumed until
// its end and the result is checked like any freshly constructed multiproof.
func Read(in io.Reader) (*multiproof.Multiproof, error) {
	// Start by checking the magic number.
	buffer := make([]byte, len(magicNumber))
	if _, err := io.ReadFull(in, buffer); err != nil {
		return nil, err
	} else if !bytes.Equal(buffer, magicNumber) {
		return nil, fmt.Errorf("%w: wrong magic number", ErrInvalidFormat)
	}

	// Check the version number.
	if _, err := io.ReadFull(in, buffer[0:1]); err != nil {
		return nil, err
	} else if buffer[0] != formatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidFormat, buffer[0])
	}

	// Read configuration and root.
	if _, err := io.ReadFull(in, buffer[0:3]); err != nil {
		return nil, err
	}
	depth := binary.BigEndian.Uint16(buffer[0:])
	name := make([]byte, buffer[2])
	if _, err := io.ReadFull(in, name); err != nil {
		return nil, err
	}
	config, err := resolveConfig(string(name), depth)
	if err != nil {
		return nil, err
	}
	var root common.Hash
	if _, err := io.ReadFull(in, root[:]); err != nil {
		return nil, err
	}

	encoder := multiproof.AccountEncoder{}
	entries := []multiproof.Entry{}
	record := make([]byte, 2+32+encoder.GetEncodedSize())
	for {
		if _, err := io.ReadFull(in, buffer[0:1]); err != nil {
			if errors.Is(err, io.EOF) {
				return multiproof.New(config, root, entries)
			}
			return nil, err
		}
		var size int
		switch buffer[0] {
		case 'H':
			size = 34 + common.HashSize
		case 'A':
			size = 34 + encoder.GetEncodedSize()
		default:
			return nil, fmt.Errorf("%w: unexpected token type: %c", ErrInvalidFormat, buffer[0])
		}
		if _, err := io.ReadFull(in, record[:size]); err != nil {
			return nil, err
		}
		pos := multiproof.NewPosition(
			binary.BigEndian.Uint16(record[0:]),
			new(uint256.Int).SetBytes32(record[2:34]),
		)
		if buffer[0] == 'A' {
			var account common.Account
			encoder.Load(record[34:], &account)
			entries = append(entries, multiproof.AccountEntry(pos, account))
		} else {
			entries = append(entries, multiproof.HashEntry(pos, common.Hash(record[34:34+common.HashSize])))
		}
	}
}
