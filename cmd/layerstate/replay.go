// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/devnet-tools/layerstate/devchain"
	"github.com/devnet-tools/layerstate/genesis"
	"github.com/devnet-tools/layerstate/log"
	"github.com/devnet-tools/layerstate/state"
)

var logger = log.WithContext("pkg", "replay")

// Script is a sequence of state operations.
type Script struct {
	Steps []Step `yaml:"steps"`
}

// Step is a single state operation. Fields are interpreted according to Op.
type Step struct {
	Op      string                   `yaml:"op"`
	Address *devchain.Address        `yaml:"address"`
	Balance *genesis.HexOrDecimal256 `yaml:"balance"`
	Nonce   *uint64                  `yaml:"nonce"`
	Code    *string                  `yaml:"code"`
	Index   string                   `yaml:"index"`
	Value   string                   `yaml:"value"`
	// Label names a snapshot, so that later steps can refer to it.
	Label string `yaml:"label"`
	Root  string `yaml:"root"`
}

func loadScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open script")
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var script Script
	if err := dec.Decode(&script); err != nil {
		return nil, errors.Wrap(err, "decode script")
	}
	return &script, nil
}

type replayer struct {
	st     *state.State
	out    io.Writer
	labels map[string]devchain.Bytes32
}

func newReplayer(st *state.State, out io.Writer) *replayer {
	return &replayer{
		st:     st,
		out:    out,
		labels: make(map[string]devchain.Bytes32),
	}
}

func (r *replayer) run(script *Script) error {
	for i := range script.Steps {
		step := &script.Steps[i]
		if err := r.apply(step); err != nil {
			return errors.WithMessagef(err, "step %d (%s)", i, step.Op)
		}
		fmt.Fprintf(r.out, "%-4d %-15s %v\n", i, step.Op, r.st.StateRoot())
	}
	return nil
}

func (r *replayer) apply(step *Step) error {
	switch step.Op {
	case "insert":
		addr, err := step.address()
		if err != nil {
			return err
		}
		var a state.Account
		if step.Balance != nil {
			if a.Balance, err = step.Balance.Uint256(); err != nil {
				return errors.WithMessage(err, "balance")
			}
		}
		if step.Nonce != nil {
			a.Nonce = *step.Nonce
		}
		if step.Code != nil {
			if a.Code, err = decodeCode(*step.Code); err != nil {
				return err
			}
		}
		r.st.InsertAccount(addr, a)
	case "update":
		addr, err := step.address()
		if err != nil {
			return err
		}
		var u state.AccountUpdate
		if step.Balance != nil {
			b, err := step.Balance.Uint256()
			if err != nil {
				return errors.WithMessage(err, "balance")
			}
			u.Balance = &b
		}
		u.Nonce = step.Nonce
		if step.Code != nil {
			if u.Code, err = decodeCode(*step.Code); err != nil {
				return err
			}
			if u.Code == nil {
				u.Code = []byte{}
			}
		}
		r.st.UpdateAccount(addr, u)
	case "remove":
		addr, err := step.address()
		if err != nil {
			return err
		}
		if _, ok := r.st.RemoveAccount(addr); !ok {
			logger.Warn("removing absent account", "addr", addr)
		}
	case "setStorage":
		addr, err := step.address()
		if err != nil {
			return err
		}
		index, err := genesis.ParseUint256(step.Index)
		if err != nil {
			return errors.WithMessagef(err, "index %q", step.Index)
		}
		value, err := genesis.ParseUint256(step.Value)
		if err != nil {
			return errors.WithMessagef(err, "value %q", step.Value)
		}
		r.st.SetAccountStorageSlot(addr, index, value)
	case "checkpoint":
		r.st.Checkpoint()
	case "revert":
		return r.st.Revert()
	case "snapshot":
		root, existed := r.st.MakeSnapshot()
		if existed {
			logger.Info("snapshot exists", "root", root)
		}
		if step.Label != "" {
			r.labels[step.Label] = root
		}
	case "restore":
		root, err := r.root(step)
		if err != nil {
			return err
		}
		return r.st.SetStateRoot(root)
	case "removeSnapshot":
		root, err := r.root(step)
		if err != nil {
			return err
		}
		if !r.st.RemoveSnapshot(root) {
			logger.Warn("removing absent snapshot", "root", root)
		}
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
	return nil
}

// root resolves the snapshot root referred by the step, either by label or literally.
func (r *replayer) root(step *Step) (devchain.Bytes32, error) {
	if step.Label != "" {
		root, ok := r.labels[step.Label]
		if !ok {
			return devchain.Bytes32{}, fmt.Errorf("unknown snapshot label %q", step.Label)
		}
		return root, nil
	}
	if step.Root == "" {
		return devchain.Bytes32{}, errors.New("either label or root must be set")
	}
	return devchain.ParseBytes32(step.Root)
}

func (s *Step) address() (devchain.Address, error) {
	if s.Address == nil {
		return devchain.Address{}, errors.New("address must be set")
	}
	return *s.Address, nil
}

func decodeCode(s string) ([]byte, error) {
	if s == "" || s == "0x" {
		return nil, nil
	}
	code, err := hexutil.Decode(s)
	if err != nil {
		return nil, errors.Wrap(err, "invalid code")
	}
	return code, nil
}
