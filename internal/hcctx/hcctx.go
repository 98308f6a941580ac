// Package hcctx persists the execution context a bridge plugin receives
// from hashcat, so a hashing callback can be developed and replayed outside
// of a cracking session.
package hcctx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/gpgkeyhash/gpgkeyhash/internal/hashline"
	"github.com/gpgkeyhash/gpgkeyhash/internal/saltrec"
)

const (
	// EsaltSize is the per-salt esalt buffer size of an unsalted session.
	EsaltSize = 2056
	// DefaultParallelism is used when the context does not set one.
	DefaultParallelism = 4
	// InvalidPassword replaces the result of a failing callback.
	InvalidPassword = "invalid-password"
)

// Context is the state handed to bridge callbacks.
type Context struct {
	Salts          []byte `json:"salts_buf"`
	Esalts         []byte `json:"esalts_buf"`
	SelfTestSalts  []byte `json:"st_salts_buf"`
	SelfTestEsalts []byte `json:"st_esalts_buf"`
	Parallelism    int    `json:"parallelism"`
}

// Default returns the context of an unsalted session: one zero salt record
// and zeroed esalt buffers.
func Default() Context {
	return Context{
		Salts:          make([]byte, saltrec.RecordSize),
		Esalts:         make([]byte, EsaltSize),
		SelfTestSalts:  make([]byte, saltrec.RecordSize),
		SelfTestEsalts: make([]byte, EsaltSize),
		Parallelism:    DefaultParallelism,
	}
}

// Load reads a context written by Store.
func Load(path string) (Context, error) {
	var c Context
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("decode context %s: %w", path, err)
	}
	if c.Parallelism <= 0 {
		c.Parallelism = DefaultParallelism
	}
	return c, nil
}

// LoadOrDefault loads path, or returns Default when path is empty.
func LoadOrDefault(path string) (Context, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Store writes c to path, readable by the owner only.
func Store(path string, c Context) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0600)
}

// SaltRecords decodes the session or self-test salt records.
func (c Context) SaltRecords(selfTest bool) ([]saltrec.Record, error) {
	if selfTest {
		return saltrec.Decode(c.SelfTestSalts)
	}
	return saltrec.Decode(c.Salts)
}

// ErrSelfTestMismatch is returned when a hash line does not belong to the
// context's self-test salt.
var ErrSelfTestMismatch = errors.New("self-test hash does not match context")

// VerifySelfTest checks that line parses and that its salt and iteration
// count equal the first self-test record.
func (c Context) VerifySelfTest(line string) error {
	l, err := hashline.Parse(line)
	if err != nil {
		return err
	}
	recs, err := c.SaltRecords(true)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return fmt.Errorf("%w: no self-test salt", ErrSelfTestMismatch)
	}
	first := recs[0]
	if !bytes.Equal(first.Salt, l.Salt) {
		return fmt.Errorf("%w: salt %x, context has %x", ErrSelfTestMismatch, l.Salt, first.Salt)
	}
	if uint64(first.Iter) != l.Iterations {
		return fmt.Errorf("%w: iterations %d, context has %d", ErrSelfTestMismatch, l.Iterations, first.Iter)
	}
	return nil
}

// HashFunc computes the hash of one password for a salt record.
type HashFunc func(password []byte, salt saltrec.Record) (string, error)

// RunBatch hashes passwords against the record saltID with up to
// Parallelism workers. Results keep the input order; a callback error yields
// InvalidPassword for that entry and does not stop the batch. A nil ctx is
// treated as context.Background().
func (c Context) RunBatch(ctx context.Context, passwords [][]byte, saltID int, selfTest bool, fn HashFunc) ([]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	recs, err := c.SaltRecords(selfTest)
	if err != nil {
		return nil, err
	}
	if saltID < 0 || saltID >= len(recs) {
		return nil, fmt.Errorf("salt id %d out of range (have %d)", saltID, len(recs))
	}
	salt := recs[saltID]

	workers := c.Parallelism
	if workers <= 0 {
		workers = DefaultParallelism
	}
	out := make([]string, len(passwords))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				h, err := fn(passwords[i], salt)
				if err != nil {
					h = InvalidPassword
				}
				out[i] = h
			}
		}()
	}
	var cerr error
feed:
	for i := range passwords {
		if err := ctx.Err(); err != nil {
			cerr = err
			break
		}
		select {
		case <-ctx.Done():
			cerr = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	if cerr != nil {
		return nil, cerr
	}
	return out, nil
}
