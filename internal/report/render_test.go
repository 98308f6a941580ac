package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/gpgkeyhash/gpgkeyhash/internal/types"
)

var sample = []types.Result{
	{Path: "A1.key", Status: types.StatusOK, Line: "$gpg$*1*32*4096*00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff*1*254*2*7*12*0102030405060708090a0b0c*1024*0102030405060708"},
	{Path: "B2.key", Status: types.StatusSkipped, Kind: "not-found", Error: "locate: pattern not found"},
	{Path: "C3.key", Status: types.StatusFailed, Kind: "length-violation", Error: "nonce: invalid nonce length 2, want 12"},
}

func TestPrintLines_OnlySuccesses(t *testing.T) {
	var buf bytes.Buffer
	PrintLines(&buf, sample)
	if buf.String() != sample[0].Line+"\n" {
		t.Fatalf("unexpected lines output: %q", buf.String())
	}
}

func TestPrintText_NoResults_ShowsFooter(t *testing.T) {
	var buf bytes.Buffer
	PrintText(&buf, nil, PrintOptions{Duration: 1200 * time.Millisecond, FilesScanned: 10})
	out := buf.String()
	if !strings.Contains(out, "No key files found") {
		t.Fatalf("expected friendly empty message; got: %q", out)
	}
	if !strings.Contains(out, "Files scanned: 10") {
		t.Fatalf("expected footer with files scanned; got: %q", out)
	}
}

func TestPrintText_WithResults(t *testing.T) {
	var buf bytes.Buffer
	withWarning := append([]types.Result(nil), sample...)
	withWarning[0].Warning = "field 12 (salt): length 32, want 16"
	PrintText(&buf, withWarning, PrintOptions{NoColor: true, FilesScanned: 3, CacheHits: 1})
	out := buf.String()
	for _, want := range []string{"ok      A1.key", "failed  C3.key  nonce: invalid nonce length", "warning: field 12", "Keys: 3 (extracted: 1, skipped: 1, failed: 1)", "Cache hits: 1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output; got: %q", want, out)
		}
	}
}

func TestPrintTable_WithResults(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, sample, PrintOptions{NoColor: true})
	out := buf.String()
	if !strings.Contains(out, "STATUS") {
		t.Fatalf("expected table header with STATUS; got: %q", out)
	}
	if !strings.Contains(out, "length-violation") {
		t.Fatalf("expected kind in table; got: %q", out)
	}
	if strings.Contains(out, sample[0].Line) {
		t.Fatalf("expected hash line to be abbreviated; got: %q", out)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("expected empty array, got %q", buf.String())
	}
	buf.Reset()
	if err := WriteJSON(&buf, sample); err != nil {
		t.Fatal(err)
	}
	var arr []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &arr); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(arr) != 3 || arr[0]["line"] != sample[0].Line || arr[2]["kind"] != "length-violation" {
		t.Fatalf("unexpected json: %s", buf.String())
	}
}

func TestShouldFail(t *testing.T) {
	if ShouldFail(sample, false) {
		t.Fatal("one extraction without fail-on-error should pass")
	}
	if !ShouldFail(sample, true) {
		t.Fatal("fail-on-error with a failure should fail")
	}
	if !ShouldFail(sample[1:], false) {
		t.Fatal("no extraction at all should fail")
	}
}
