package gpgkeyhash

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gpgkeyhash/gpgkeyhash/internal/hcctx"
	"github.com/gpgkeyhash/gpgkeyhash/internal/saltrec"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ctHex = "00112233445566778899AABBCCDDEEFF00112233445566778899AABBCCDDEEFF"

const (
	okKey = "(protected-private-key (ecc (curve Ed25519)(q #40AA#)" +
		"(protected openpgp-s2k3-ocb-aes ((sha1 #0102030405060708# \"1024\")#0102030405060708090A0B0C#)" +
		"#" + ctHex + "#)))\n"
	plainKey = "(private-key (ecc (curve Ed25519)(q #40AA#)(d #BEEF#)))\n"
	badKey   = "(protected-private-key (ecc (protected openpgp-s2k3-ocb-aes ((sha1 #0102030405060708# \"1024\")#0102#)#00#)))\n"

	okLine = "$gpg$*1*32*4096*00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff*1*254*2*7*12*0102030405060708090a0b0c*1024*0102030405060708"

	selfTestLine = "$gpg$*1*60*4096*71cdae39dd004b5fd4571575c683a33ecb0d2ea4495655b2544a63397b4f92e1b7d2c5243143398f9d44aba1e7b97c88b7030080b97c811d757264be*1*254*2*7*12*07f4ca8d366ae2e0ab55da75*329368576*199d8afecccd9dd6"
)

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCLI executes the command tree in-process and returns stdout, stderr
// and the exit status Execute would use.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, int) {
	t.Helper()
	t.Setenv("CI", "1")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetFlags(rootCmd)
	var out, errb bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errb)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	code := exitStatus(rootCmd.Execute(), &errb)
	return out.String(), errb.String(), code
}

func writeKeys(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0600))
	}
	return dir
}

func TestRoot_ExtractsLine(t *testing.T) {
	dir := writeKeys(t, map[string]string{"ok.key": okKey})
	out, errOut, code := runCLI(t, "", filepath.Join(dir, "ok.key"))
	assert.Equal(t, 0, code)
	assert.Equal(t, okLine+"\n", out)
	assert.Empty(t, errOut)
}

func TestRoot_JSON(t *testing.T) {
	dir := writeKeys(t, map[string]string{"ok.key": okKey})
	out, _, code := runCLI(t, "", "--json", filepath.Join(dir, "ok.key"))
	require.Equal(t, 0, code)
	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, okLine, got["line"])
}

func TestRoot_Usage(t *testing.T) {
	for _, args := range [][]string{{}, {"a.key", "b.key"}} {
		out, errOut, code := runCLI(t, "", args...)
		assert.Equal(t, 1, code, "args %v", args)
		assert.Empty(t, out)
		assert.Contains(t, errOut, "usage: gpgkeyhash /path/to/private-keys-v1-file")
	}
}

func TestFlagErrorsAreUsage(t *testing.T) {
	cases := [][]string{
		{"--bogus", "a.key"},
		{"scan", "--threads", "many"},
		{"check", "--nope", selfTestLine},
	}
	for _, args := range cases {
		out, errOut, code := runCLI(t, "", args...)
		assert.Equal(t, 1, code, "args %v", args)
		assert.Empty(t, out)
		assert.True(t, strings.HasPrefix(errOut, "usage: "), "stderr %q", errOut)
		assert.Contains(t, errOut, "--help")
	}
}

func TestRoot_Failures(t *testing.T) {
	dir := writeKeys(t, map[string]string{"plain.key": plainKey, "bad.key": badKey})
	cases := []struct {
		name string
		want string
	}{
		{"plain.key", "error: locate: pattern not found"},
		{"bad.key", "error: nonce"},
		{"missing.key", "error: open"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, errOut, code := runCLI(t, "", filepath.Join(dir, tc.name))
			assert.Equal(t, 2, code)
			assert.Empty(t, out)
			assert.True(t, strings.HasPrefix(errOut, tc.want), "stderr %q", errOut)
			assert.Equal(t, 1, strings.Count(errOut, "\n"))
		})
	}
}

func TestScan_Lines(t *testing.T) {
	dir := writeKeys(t, map[string]string{"ok.key": okKey, "plain.key": plainKey})
	out, _, code := runCLI(t, "", "scan", "-p", dir, "--no-cache")
	assert.Equal(t, 0, code)
	assert.Equal(t, okLine+"\n", out)
}

func TestScan_JSONAndFailOnError(t *testing.T) {
	dir := writeKeys(t, map[string]string{"ok.key": okKey, "bad.key": badKey})
	out, _, code := runCLI(t, "", "scan", "-p", dir, "--json", "--no-cache")
	assert.Equal(t, 0, code)
	var results []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "bad.key", results[0]["path"])
	assert.Equal(t, "failed", results[0]["status"])

	_, _, code = runCLI(t, "", "scan", "-p", dir, "--no-cache", "--fail-on-error")
	assert.Equal(t, 1, code)
}

func TestScan_NothingExtractedFails(t *testing.T) {
	dir := writeKeys(t, map[string]string{"plain.key": plainKey})
	out, _, code := runCLI(t, "", "scan", "-p", dir, "--no-cache")
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
}

func TestScan_RejectsBadFormatAndGlob(t *testing.T) {
	dir := writeKeys(t, map[string]string{"ok.key": okKey})
	_, errOut, code := runCLI(t, "", "scan", "-p", dir, "--format", "xml")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "unsupported format")

	_, errOut, code = runCLI(t, "", "scan", "-p", dir, "--include", "[")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "invalid glob")
}

func TestScan_LastAndAuditHistory(t *testing.T) {
	dir := writeKeys(t, map[string]string{"ok.key": okKey})
	_, _, code := runCLI(t, "", "scan", "-p", dir, "--audit")
	require.Equal(t, 0, code)

	out, _, code := runCLI(t, "", "scan", "-p", dir, "--last")
	assert.Equal(t, 0, code)
	assert.Equal(t, okLine+"\n", out)

	out, _, code = runCLI(t, "", "history", "-p", dir, "--json")
	require.Equal(t, 0, code)
	var hist []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &hist))
	require.Len(t, hist, 1)
	assert.EqualValues(t, 1, hist[0]["extracted"])
}

func TestScan_TableFormat(t *testing.T) {
	dir := writeKeys(t, map[string]string{"ok.key": okKey, "plain.key": plainKey})
	out, _, code := runCLI(t, "", "scan", "-p", dir, "--no-cache", "--format", "table")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "ok.key")
	assert.Contains(t, out, "plain.key")
}

func TestScan_ConfigFileFormat(t *testing.T) {
	dir := writeKeys(t, map[string]string{"ok.key": okKey, ".gpgkeyhash.yml": "format: json\nno_cache: true\n"})
	out, _, code := runCLI(t, "", "scan", "-p", dir)
	require.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "["))
	_, err := os.Stat(filepath.Join(dir, ".gpgkeyhashcache.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestCheck(t *testing.T) {
	out, _, code := runCLI(t, "", "check", selfTestLine)
	assert.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "ok "))

	bad := strings.Replace(selfTestLine, "*7*12*", "*9*12*", 1)
	out, _, code = runCLI(t, bad+"\n"+selfTestLine+"\n", "check", "--json")
	assert.Equal(t, 1, code)
	var results []checkResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.False(t, results[0].Valid)
	assert.Equal(t, "cipher", results[0].Field)
	assert.True(t, results[1].Valid)

	_, errOut, code := runCLI(t, "", "check")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "no hash lines")
}

func TestInspect(t *testing.T) {
	dir := writeKeys(t, map[string]string{"ok.key": okKey})
	out, _, code := runCLI(t, "", "inspect", filepath.Join(dir, "ok.key"))
	require.Equal(t, 0, code)
	assert.Contains(t, out, "#<16 chars>#")
	assert.NotContains(t, out, "0102030405060708#")
	assert.Contains(t, out, "iterations:  1024")
	assert.Contains(t, out, "accepted by -m 17050")

	out, _, code = runCLI(t, "", "inspect", "--reveal", filepath.Join(dir, "ok.key"))
	require.Equal(t, 0, code)
	assert.Contains(t, out, "#0102030405060708#")
}

func TestBridgeCtx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctx.json")
	_, errOut, code := runCLI(t, "", "bridge", "ctx", path)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "error:")

	out, _, code := runCLI(t, "", "bridge", "ctx", "--init", "--json", path)
	require.Equal(t, 0, code)
	var view ctxView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, hcctx.DefaultParallelism, view.Parallelism)
	assert.Len(t, view.Salts, 1)
	assert.Equal(t, hcctx.EsaltSize, view.EsaltBytes)

	_, errOut, code = runCLI(t, "", "bridge", "ctx", "--verify", selfTestLine, path)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "self-test hash does not match")
}

func TestBridgeCtx_DefaultWithoutFile(t *testing.T) {
	out, _, code := runCLI(t, "", "bridge", "ctx", "--json")
	require.Equal(t, 0, code)
	var view ctxView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, hcctx.DefaultParallelism, view.Parallelism)
	assert.Len(t, view.SelfTestSalts, 1)

	_, errOut, code := runCLI(t, "", "bridge", "ctx", "--init")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "--init needs a context file")
}

func TestBridgeSalts(t *testing.T) {
	blob, err := saltrec.Encode([]saltrec.Record{
		{Salt: []byte{0x19, 0x9d, 0x8a, 0xfe, 0xcc, 0xcd, 0x9d, 0xd6}, Iter: 329368576, DigestsCnt: 1},
		{Salt: []byte("ABCDEFGH"), Iter: 1024, OrigPos: 1},
	})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "salts.bin")
	require.NoError(t, os.WriteFile(path, blob, 0600))

	out, _, code := runCLI(t, "", "bridge", "salts", "--json", path)
	require.Equal(t, 0, code)
	var views []saltView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 2)
	assert.Equal(t, "199d8afecccd9dd6", views[0].Salt)
	assert.Equal(t, uint32(1024), views[1].Iter)

	require.NoError(t, os.WriteFile(path, blob[:100], 0600))
	_, _, code = runCLI(t, "", "bridge", "salts", path)
	assert.Equal(t, 2, code)
}

func TestConfigInitAndShow(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, ".gpgkeyhash.yml")
	_, _, code := runCLI(t, "", "config", "init", "--output", target, "--threads", "3", "--format", "table")
	require.Equal(t, 0, code)

	out, _, code := runCLI(t, "", "config", dir)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "threads: 3")
	assert.Contains(t, out, "format: table")
}

func TestCompletion(t *testing.T) {
	out, _, code := runCLI(t, "", "completion", "bash")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "gpgkeyhash")

	_, _, code = runCLI(t, "", "completion", "tcsh")
	assert.Equal(t, 2, code)
}

func TestCompletion_FlagValues(t *testing.T) {
	out, _, code := runCLI(t, "", "__complete", "scan", "--format", "")
	require.Equal(t, 0, code)
	for _, v := range []string{"lines", "table", "text", "json"} {
		assert.Contains(t, out, v)
	}

	out, _, code = runCLI(t, "", "__complete", "--log-level", "")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "debug")
}

func TestVersion(t *testing.T) {
	out, _, code := runCLI(t, "", "version", "--no-update-check")
	assert.Equal(t, 0, code)
	assert.Equal(t, "gpgkeyhash v"+version+"\n", out)
}
