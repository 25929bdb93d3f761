// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/ftledger/accounting"
	"github.com/vechain/ftledger/ft"
)

type cmdRunner struct {
	t       *testing.T
	dataDir string
}

func (r *cmdRunner) exec(args ...string) (string, error) {
	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf
	err := app.Run(append([]string{"ftledger", "--data-dir", r.dataDir}, args...))
	return buf.String(), err
}

func (r *cmdRunner) run(args ...string) string {
	out, err := r.exec(args...)
	require.NoError(r.t, err, "%v", args)
	return out
}

func (r *cmdRunner) amount(args ...string) string {
	var res amountResult
	require.NoError(r.t, json.Unmarshal([]byte(r.run(args...)), &res))
	return res.Amount
}

func TestCommands(t *testing.T) {
	r := &cmdRunner{t, t.TempDir()}
	minDeposit := accounting.DefaultPolicy().MinDeposit().Dec()
	metricsFile := filepath.Join(t.TempDir(), "metrics.prom")

	_, err := r.exec("total-supply")
	assert.ErrorIs(t, err, ft.ErrNotInitialized)

	assert.Equal(t, "1000", r.amount("--metrics-file", metricsFile, "init", "owner", "1000"))
	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `ftledger_op_count{op="new",result="ok"} 1`)

	_, err = r.exec("init", "owner", "1000")
	assert.ErrorIs(t, err, ft.ErrAlreadyInitialized)

	var bal map[string]string
	out := r.run("--caller", "alice", "--attach", minDeposit, "storage-deposit")
	require.NoError(t, json.Unmarshal([]byte(out), &bal))
	assert.Equal(t, map[string]string{"total": minDeposit, "available": "0"}, bal)
	r.run("--caller", "owner", "--attach", minDeposit, "storage-deposit", "--account", "dex")

	r.run("--caller", "owner", "--attach", "1", "transfer", "--memo", "hi", "alice", "100")
	assert.Equal(t, "100", r.amount("balance-of", "alice"))

	_, err = r.exec("--caller", "owner", "transfer", "alice", "1")
	assert.ErrorIs(t, err, ft.ErrAuthorizationRequired)
	_, err = r.exec("--caller", "Not Valid", "--attach", "1", "transfer", "alice", "1")
	assert.Error(t, err)

	// dex keeps 60 of what it gets
	receivers := filepath.Join(r.dataDir, "receivers")
	require.NoError(t, os.MkdirAll(receivers, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(receivers, "dex.js"),
		[]byte(`function onTransfer(sender, amount, msg) { return "40"; }`), 0600))

	var res resolutionResult
	out = r.run("--caller", "owner", "--attach", "1", "transfer-call", "--msg", "swap", "dex", "100")
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "60", res.Used)
	assert.Equal(t, "40", res.Refunded)
	assert.Empty(t, res.NotifyErr)
	assert.Equal(t, "840", r.amount("balance-of", "owner"))
	assert.Equal(t, "60", r.amount("balance-of", "dex"))

	assert.Equal(t, "1000", r.amount("check"))

	assert.Equal(t, "true\n", r.run("--caller", "alice", "--attach", "1", "storage-unregister", "--force"))
	assert.Equal(t, "900", r.amount("total-supply"))
	assert.Equal(t, "null\n", r.run("storage-balance-of", "alice"))

	r.run("--caller", "owner", "burn", "40")
	assert.Equal(t, "860", r.amount("total-supply"))
	assert.Equal(t, "860", r.amount("check"))

	var bounds map[string]*string
	require.NoError(t, json.Unmarshal([]byte(r.run("storage-bounds")), &bounds))
	require.NotNil(t, bounds["min"])
	assert.Equal(t, minDeposit, *bounds["min"])
	assert.Nil(t, bounds["max"])

	var evs []struct {
		Seq   uint64 `json:"seq"`
		Op    string `json:"op"`
		Event struct {
			Event string `json:"event"`
		} `json:"event"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.run("events", "--account", "alice")), &evs))
	require.Len(t, evs, 2)
	assert.Equal(t, "ft_transfer", evs[0].Op)
	assert.Equal(t, "ft_transfer", evs[0].Event.Event)
	assert.Equal(t, "storage_unregister", evs[1].Op)
	assert.Equal(t, "ft_burn", evs[1].Event.Event)

	require.NoError(t, json.Unmarshal([]byte(r.run("events", "--kind", "ft_burn", "--desc", "--limit", "1")), &evs))
	require.Len(t, evs, 1)
	assert.Equal(t, "burn", evs[0].Op)
}
