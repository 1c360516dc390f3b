// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package multiproof

import "fmt"

// Config defines the shape of the account tree covered by a multiproof.
type Config struct {
	// A descriptive name for this configuration. It has no effect except for
	// logging and debugging purposes.
	Name string

	// The number of levels below the root. Leaves are located at this depth,
	// thus the tree has 2^Depth leaves. Valid values are in the range [1,256].
	Depth uint16
}

// MaxDepth is the depth at which every address has its own leaf.
const MaxDepth = 256

// DefaultConfig covers the full 256-bit address space, mapping every address
// to a distinct leaf.
var DefaultConfig = Config{
	Name:  "Default",
	Depth: MaxDepth,
}

// TestConfig is a small tree mainly intended for tests and experiments.
var TestConfig = Config{
	Name:  "Test",
	Depth: 8,
}

var allConfigs = []Config{DefaultConfig, TestConfig}

// GetConfigByName attempts to locate a configuration with the given name.
func GetConfigByName(name string) (Config, bool) {
	for _, config := range allConfigs {
		if config.Name == name {
			return config, true
		}
	}
	return Config{}, false
}

// Validate checks that the configuration describes a usable tree.
func (c Config) Validate() error {
	if c.Depth == 0 || c.Depth > MaxDepth {
		return fmt.Errorf("%w: depth must be in range [1,%d], got %d", ErrInvalidConfig, MaxDepth, c.Depth)
	}
	return nil
}
