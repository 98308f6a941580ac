package core

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gpgkeyhash/gpgkeyhash/internal/logging"
)

const key = `(protected openpgp-s2k3-ocb-aes (sha1 "ABCDEFGH" "20000000") #0102030405060708090a0b0c# #00112233445566778899aabbccddeeff#)`

func TestExtractFormat(t *testing.T) {
	rec, err := Extract([]byte(key))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := "$gpg$*1*16*4096*00112233445566778899aabbccddeeff*1*254*2*7*12*0102030405060708090a0b0c*20000000*4142434445464748"
	if got := Format(rec); got != want {
		t.Fatalf("Format = %q, want %q", got, want)
	}
	if _, err := Check(want); !errors.Is(err, ErrRejected) {
		t.Fatalf("expected short ciphertext to be rejected by Check, got %v", err)
	}
}

func TestExtract_ErrorKinds(t *testing.T) {
	_, err := Extract([]byte("(private-key)"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var e *Error
	if !errors.As(err, &e) || e.Kind != KindNotFound {
		t.Fatalf("expected *Error with KindNotFound, got %#v", err)
	}
}

func TestScanDir_Smoke(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.key"), []byte(key), 0600); err != nil {
		t.Fatal(err)
	}
	stats, err := ScanDir(context.Background(), Config{Root: dir, NoCache: true, Logger: logging.Discard()})
	if err != nil {
		t.Fatalf("ScanDir error: %v", err)
	}
	if stats.Extracted != 1 || len(stats.Results) != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	var buf bytes.Buffer
	if err := MarshalResults(&buf, stats.Results); err != nil {
		t.Fatal(err)
	}
	back, err := UnmarshalResults(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(back) != 1 || back[0].Line != stats.Results[0].Line {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}

func TestBridgeContext_StoreLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctx.json")
	def, err := LoadContext("")
	if err != nil {
		t.Fatal(err)
	}
	def.Parallelism = 2
	if err := StoreContext(path, def); err != nil {
		t.Fatal(err)
	}
	got, err := LoadContext(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Parallelism != 2 {
		t.Fatalf("parallelism = %d, want 2", got.Parallelism)
	}
	if _, err := LoadContext(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing context file")
	}

	out, err := RunBatch(context.Background(), got, [][]byte{[]byte("x")}, 0, false, func(pw []byte, _ SaltRecord) (string, error) {
		return "", errors.New("boom")
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0] != InvalidPassword {
		t.Fatalf("unexpected batch output: %v", out)
	}
}
