// Package keyfile extracts the S2K and OCB parameters from gpg-agent
// secret-key containers (private-keys-v1.d/*.key).
//
// The container is an S-expression with two literal encodings: quoted raw
// bytes ("...") and hex blocks (#...#) that may be line-wrapped. Extraction
// runs in three steps: Locate finds the (protected openpgp-s2k3-ocb-aes ...)
// block, Normalize collapses whitespace in it, and Scan walks the result with
// a Cursor to produce a Record.
//
// Everything in this package is a pure function of its input bytes and is
// safe for concurrent use.
package keyfile
