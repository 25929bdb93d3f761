// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package receiver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/ftledger/ft"
)

func TestScript(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		want    *uint256.Int
		wantErr bool
	}{
		{"use all", `function onTransfer(sender, amount, msg) { return "0"; }`, uint256.NewInt(0), false},
		{"return nothing", `function onTransfer(sender, amount, msg) {}`, uint256.NewInt(0), false},
		{"partial as number", `function onTransfer(sender, amount, msg) { return 40; }`, uint256.NewInt(40), false},
		{"echo amount", `function onTransfer(sender, amount, msg) { return amount; }`, uint256.NewInt(100), false},
		{"by msg", `function onTransfer(sender, amount, msg) { return msg === "keep" ? "0" : amount; }`, uint256.NewInt(100), false},
		{"by sender", `function onTransfer(sender, amount, msg) { if (sender !== "owner") throw new Error("who"); return "1"; }`, uint256.NewInt(1), false},
		{"throws", `function onTransfer() { throw new Error("rejected"); }`, nil, true},
		{"bad return", `function onTransfer() { return "-5"; }`, nil, true},
		{"no entry", `var x = 1;`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Compile(tt.name, tt.src)
			require.NoError(t, err)

			got, err := s.OnTransfer(context.Background(), "owner", uint256.NewInt(100), "msg")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompileError(t *testing.T) {
	_, err := Compile("bad", `function (`)
	assert.Error(t, err)
}

func TestScriptInterrupted(t *testing.T) {
	s, err := Compile("loop", `function onTransfer() { for (;;) {} }`)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = s.OnTransfer(ctx, "owner", uint256.NewInt(1), "")
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestLoadDir(t *testing.T) {
	d, err := LoadDir(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, d)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shop.near.js"), []byte(`function onTransfer() { return "0"; }`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))

	d, err = LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, d, 1)
	r := d.Lookup(ft.AccountID("shop.near"))
	require.NotNil(t, r)
	assert.Equal(t, "shop.near.js", r.(*Script).Name())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Bad-.js"), []byte(``), 0o600))
	_, err = LoadDir(dir)
	assert.Error(t, err)
}
