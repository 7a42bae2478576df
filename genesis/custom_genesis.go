// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Load reads the genesis config at path. YAML is used for .yaml and .yml files, JSON otherwise.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}

	var g Genesis
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &g)
	default:
		err = json.Unmarshal(data, &g)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decode genesis %v", filepath.Base(path))
	}
	return &g, nil
}

// HexOrDecimal256 marshals big.Int as hex or decimal.
type HexOrDecimal256 math.HexOrDecimal256

// NewHexOrDecimal256 creates HexOrDecimal256 from a big.Int.
func NewHexOrDecimal256(b *big.Int) *HexOrDecimal256 {
	return (*HexOrDecimal256)(new(big.Int).Set(b))
}

func (i *HexOrDecimal256) set(text string) error {
	bigint, ok := math.ParseBig256(text)
	if !ok {
		return fmt.Errorf("invalid hex or decimal integer %q", text)
	}
	*i = HexOrDecimal256(*bigint)
	return nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (i *HexOrDecimal256) UnmarshalJSON(input []byte) error {
	var text string
	if err := json.Unmarshal(input, &text); err != nil {
		// bare number
		return (*big.Int)(i).UnmarshalJSON(input)
	}
	return i.set(text)
}

// MarshalJSON implements the json.Marshaler interface.
func (i HexOrDecimal256) MarshalJSON() ([]byte, error) {
	decimal256 := math.HexOrDecimal256(i)
	text, err := decimal256.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// Uint256 converts to uint256.Int, failing on negative or over-256-bit values.
func (i *HexOrDecimal256) Uint256() (uint256.Int, error) {
	return toUint256((*big.Int)(i))
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (i *HexOrDecimal256) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: integer expected", node.Line)
	}
	return i.set(node.Value)
}
