// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"testing"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
)

func TestWithContextLateInit(t *testing.T) {
	defer ethlog.SetDefault(ethlog.Root())

	logger := WithContext("pkg", "test")

	var buf bytes.Buffer
	Init(&buf, LegacyLevelInfo, false)

	logger.Info("hello", "k", 1)
	logger.Debug("filtered")

	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "pkg=test")
	assert.Contains(t, out, "k=1")
	assert.NotContains(t, out, "filtered")
}

func TestWithContextNoAlias(t *testing.T) {
	logger := WithContext("a", 1)
	ctx := logger.with([]any{"b", 2})
	assert.Equal(t, []any{"a", 1, "b", 2}, ctx)
	assert.Equal(t, []any{"a", 1}, logger.ctx)
}
