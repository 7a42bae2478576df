// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devnet-tools/layerstate/devchain"
	"github.com/devnet-tools/layerstate/state"
)

const testScript = `
steps:
  - op: insert
    address: "0x00000000000000000000000000000000000000aa"
    balance: 100
  - op: checkpoint
  - op: setStorage
    address: "0x00000000000000000000000000000000000000aa"
    index: "0x01"
    value: "2"
  - op: snapshot
    label: s1
  - op: remove
    address: "0x00000000000000000000000000000000000000aa"
  - op: restore
    label: s1
  - op: revert
  - op: update
    address: "0x00000000000000000000000000000000000000aa"
    nonce: 5
    code: "0x6000"
  - op: removeSnapshot
    label: s1
`

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// roots parses the state root column of the replay output.
func roots(t *testing.T, out string) []string {
	var roots []string
	for line := range strings.Lines(out) {
		fields := strings.Fields(line)
		require.Len(t, fields, 3, line)
		roots = append(roots, fields[2])
	}
	return roots
}

func TestReplay(t *testing.T) {
	script, err := loadScript(writeFile(t, "script.yaml", testScript))
	require.NoError(t, err)
	require.Len(t, script.Steps, 9)

	st := state.New(nil, state.Options{})
	var out bytes.Buffer
	require.NoError(t, newReplayer(st, &out).run(script))

	r := roots(t, out.String())
	require.Len(t, r, 9)

	addr := devchain.MustParseAddress("0x00000000000000000000000000000000000000aa")
	want := state.New(nil, state.Options{})
	want.InsertAccount(addr, state.Account{Balance: *uint256.NewInt(100)})
	assert.Equal(t, want.StateRoot().String(), r[0])

	assert.Equal(t, r[0], r[1], "checkpoint keeps root")
	assert.NotEqual(t, r[1], r[2])
	assert.Equal(t, r[2], r[3], "snapshot keeps root")
	assert.NotEqual(t, r[3], r[4])
	assert.Equal(t, r[2], r[5], "restored")
	assert.Equal(t, r[0], r[6], "reverted")
	assert.NotEqual(t, r[6], r[7])
	assert.Equal(t, r[7], r[8])

	a := st.Basic(addr)
	assert.Equal(t, uint64(5), a.Nonce)
	assert.Equal(t, *uint256.NewInt(100), a.Balance)
	assert.Equal(t, 0, st.SnapshotCount())
}

func TestReplayErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"unknown op", "steps:\n  - op: explode\n"},
		{"missing address", "steps:\n  - op: remove\n"},
		{"bad index", "steps:\n  - op: setStorage\n    address: \"0x00000000000000000000000000000000000000aa\"\n    index: zz\n    value: 1\n"},
		{"revert floor", "steps:\n  - op: revert\n"},
		{"unknown label", "steps:\n  - op: restore\n    label: nope\n"},
		{"unknown root", "steps:\n  - op: restore\n    root: \"0x0000000000000000000000000000000000000000000000000000000000000001\"\n"},
		{"no root", "steps:\n  - op: restore\n"},
		{"bad code", "steps:\n  - op: insert\n    address: \"0x00000000000000000000000000000000000000aa\"\n    code: \"0xzz\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script, err := loadScript(writeFile(t, "script.yaml", tt.script))
			require.NoError(t, err)
			err = newReplayer(state.New(nil, state.Options{}), &bytes.Buffer{}).run(script)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "step 0")
		})
	}
}

func TestReplayRestoreRemovedSnapshot(t *testing.T) {
	script, err := loadScript(writeFile(t, "script.yaml", testScript+"  - op: restore\n    label: s1\n"))
	require.NoError(t, err)

	err = newReplayer(state.New(nil, state.Options{}), &bytes.Buffer{}).run(script)
	assert.True(t, state.IsInvalidStateRoot(err))
}

func TestLoadScriptUnknownField(t *testing.T) {
	_, err := loadScript(writeFile(t, "script.yaml", "steps:\n  - op: checkpoint\n    extra: 1\n"))
	assert.Error(t, err)

	_, err = loadScript(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
