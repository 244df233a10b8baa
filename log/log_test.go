// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalHandler(t *testing.T) {
	out := new(bytes.Buffer)
	var lvl slog.LevelVar
	lvl.Set(LevelInfo)

	l := NewLogger(NewTerminalHandlerWithLevel(out, &lvl, false)).With("pkg", "test")
	l.Debug("hidden")
	l.Info("deposit", "pool", 1, "amount", big.NewInt(1234567), "wide", uint256.NewInt(42))

	line := out.String()
	assert.NotContains(t, line, "hidden")
	assert.Contains(t, line, "INFO ")
	assert.Contains(t, line, "deposit")
	assert.Contains(t, line, "pkg=test")
	assert.Contains(t, line, "pool=1")
	assert.Contains(t, line, "amount=1234567")
	assert.Contains(t, line, "wide=42")
}

func TestJSONHandler(t *testing.T) {
	out := new(bytes.Buffer)
	l := NewLogger(JSONHandler(out))
	l.Warn("fee charged", "fee", big.NewInt(1))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &rec))
	assert.Equal(t, "warn", rec["lvl"])
	assert.Equal(t, "fee charged", rec["msg"])
	assert.Equal(t, "1", rec["fee"])
}

func TestWithContextFollowsRoot(t *testing.T) {
	prev := Root()
	defer SetDefault(prev)

	l := WithContext("pkg", "late")

	out := new(bytes.Buffer)
	SetDefault(NewLogger(NewTerminalHandler(out, false)))
	l.Info("configured after declaration")

	assert.Contains(t, out.String(), "pkg=late")
	assert.Contains(t, out.String(), "configured after declaration")
}

func TestFromLegacyLevel(t *testing.T) {
	assert.Equal(t, LevelCrit, FromLegacyLevel(LegacyLevelCrit))
	assert.Equal(t, LevelInfo, FromLegacyLevel(LegacyLevelInfo))
	assert.Equal(t, LevelTrace, FromLegacyLevel(9))
	assert.Equal(t, LevelCrit, FromLegacyLevel(-1))
}

func TestAppendUint64(t *testing.T) {
	assert.Equal(t, "99999", string(appendUint64(nil, 99999, false)))
	assert.Equal(t, "100,000", string(appendUint64(nil, 100000, false)))
	assert.Equal(t, "-1,234,567", string(appendInt64(nil, -1234567)))
}
