package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tsawler/tabchunk/format"
)

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCmd(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_WritesOutputs(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)
	out := filepath.Join(dir, "out")

	csvPath := writeInput(t, dir, "orders.csv", "OrderID,Customer\nA1,Acme\n")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"OrderID", "Total"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"B7", 12}))
	xlsxPath := filepath.Join(dir, "book.xlsx")
	require.NoError(t, f.SaveAs(xlsxPath))
	require.NoError(t, f.Close())

	code, _, stderr := runCmd(t, "-out", out, "-workers", "2", csvPath, xlsxPath)
	require.Equal(t, 0, code, stderr)

	got, err := os.ReadFile(filepath.Join(out, "orders.txt"))
	require.NoError(t, err)
	assert.Equal(t, "[ID:A1] OrderID: A1; Customer: Acme", string(got))

	got, err = os.ReadFile(filepath.Join(out, "book.txt"))
	require.NoError(t, err)
	assert.Equal(t, "=== Sheet: Sheet1 ===\n[ID:B7] OrderID: B7; Total: 12", string(got))
}

func TestRun_FailuresAreIsolated(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)
	out := filepath.Join(dir, "out")

	good := writeInput(t, dir, "good.csv", "OrderID\nA1\n")
	bad := writeInput(t, dir, "bad.xlsx", "not a workbook")
	unsupported := writeInput(t, dir, "notes.txt", "hello")

	code, _, stderr := runCmd(t, "-out", out, good, bad, unsupported)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "file_corruption")
	assert.Contains(t, stderr, "unsupported_format")

	assert.FileExists(t, filepath.Join(out, "good.txt"))
	assert.NoFileExists(t, filepath.Join(out, "bad.txt"))
	assert.NoFileExists(t, filepath.Join(out, "notes.txt"))
}

func TestRun_FlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)
	cfgPath := writeInput(t, dir, "tabchunk.yaml", "unique_key: Nope\nmax_len: 500\n")
	in := writeInput(t, dir, "inv.csv", "Customer,InvoiceNo\nAcme,INV-1\n")

	code, _, stderr := runCmd(t, "-config", cfgPath, "-key", "InvoiceNo", "-out", dir, in)
	require.Equal(t, 0, code, stderr)

	got, err := os.ReadFile(filepath.Join(dir, "inv.txt"))
	require.NoError(t, err)
	assert.Equal(t, "[ID:INV-1] Customer: Acme; InvoiceNo: INV-1", string(got))
}

func TestRun_FlagsRepairInvalidEnvironment(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)
	t.Setenv("TABCHUNK_MAX_LEN", "0")
	in := writeInput(t, dir, "orders.csv", "OrderID\nA1\n")

	code, _, stderr := runCmd(t, "-out", dir, in)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "invalid configuration")

	code, _, stderr = runCmd(t, "-max", "100", "-out", dir, in)
	require.Equal(t, 0, code, stderr)
	assert.FileExists(t, filepath.Join(dir, "orders.txt"))
}

func TestRun_Metadata(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)
	in := writeInput(t, dir, "orders.csv", "OrderID\nA1\n")

	code, stdout, stderr := runCmd(t, "-meta", "-out", dir, in)
	require.Equal(t, 0, code, stderr)

	var line struct {
		Path     string         `json:"path"`
		Metadata map[string]any `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(stdout)), &line))
	assert.Equal(t, in, line.Path)
	assert.Equal(t, "csv", line.Metadata["file_type"])
}

func TestRun_UsageErrors(t *testing.T) {
	chdirForTest(t, t.TempDir())

	code, _, stderr := runCmd(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "Usage: tabchunk")

	code, _, _ = runCmd(t, "-max", "-1", "x.csv")
	assert.Equal(t, 2, code)

	code, _, _ = runCmd(t, "-config", "missing.yaml", "x.csv")
	assert.Equal(t, 2, code)
}

func TestRun_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)
	in := writeInput(t, dir, "orders.csv", "OrderID\nA1\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	code := run(ctx, []string{"-out", dir, in}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.NoFileExists(t, filepath.Join(dir, "orders.txt"))
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		dir, path, want string
	}{
		{"out", "data/orders.csv", filepath.Join("out", "orders.txt")},
		{".", "book.v2.xlsx", "book.v2.txt"},
		{"out", "README", filepath.Join("out", "README.txt")},
	}

	for _, tt := range tests {
		if got := OutputPath(tt.dir, tt.path); got != tt.want {
			t.Errorf("OutputPath(%q, %q) = %q, want %q", tt.dir, tt.path, got, tt.want)
		}
	}
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("x: %w", format.ErrUnsupportedFormat), "unsupported_format"},
		{format.Corrupt("a.csv", "read csv", errors.New("boom")), "file_corruption"},
		{format.ErrPasswordProtected, "password_protected"},
		{fmt.Errorf("file not found: %w", os.ErrNotExist), "not_found"},
		{os.ErrPermission, "permission"},
		{errors.New("other"), "other"},
	}

	for _, tt := range tests {
		if got := errorKind(tt.err); got != tt.want {
			t.Errorf("errorKind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
