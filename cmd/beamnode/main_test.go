package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
)

func TestOperationsCommandListsCatalogue(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"operations"})

	require.NoError(t, root.Execute())
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Contains(t, lines, "wallet.getBalance")
	require.Contains(t, lines, "collection.getFloorPrice")
}

func TestRunCommandRequiresFile(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"run"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	require.Error(t, root.Execute())
}

func TestRunCommandExecutesPureBatch(t *testing.T) {
	dir := t.TempDir()
	batch := filepath.Join(dir, "batch.json")
	require.NoError(t, os.WriteFile(batch, []byte(`{"items":[
		{"resource":"gaming","operation":"getRank","parameters":{"rating":2250}},
		{"resource":"meritCircle","operation":"convertMcToBeam","parameters":{"amount":"3"}}
	]}`), 0o600))

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"run", "--config", filepath.Join(dir, "missing.yml"), "--file", batch})
	require.NoError(t, root.Execute())

	var decoded struct {
		Results []map[string]any `json:"results"`
		Error   string           `json:"error"`
	}
	require.NoError(t, jsoniter.Unmarshal(out.Bytes(), &decoded))
	require.Empty(t, decoded.Error)
	require.Len(t, decoded.Results, 2)
	require.Equal(t, "Master", decoded.Results[0]["rank"])
	require.Equal(t, "300", decoded.Results[1]["beamAmount"])
	require.NotEmpty(t, decoded.Results[1]["timestamp"])
}
