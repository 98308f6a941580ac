package core_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/gpgkeyhash/gpgkeyhash/pkg/core"
)

// ExampleExtract converts the content of a key file into a hash line.
func ExampleExtract() {
	data := []byte(`(protected openpgp-s2k3-ocb-aes (sha1 "ABCDEFGH" "20000000") #0102030405060708090a0b0c# #00112233445566778899aabbccddeeff#)`)
	rec, err := core.Extract(data)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(core.Format(rec))
	// Output: $gpg$*1*16*4096*00112233445566778899aabbccddeeff*1*254*2*7*12*0102030405060708090a0b0c*20000000*4142434445464748
}

// ExampleRunBatch dispatches a hashing callback over a password batch using
// the default unsalted bridge context.
func ExampleRunBatch() {
	c, err := core.LoadContext("")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	passwords := [][]byte{[]byte("hashcat"), nil}
	out, err := core.RunBatch(context.Background(), c, passwords, 0, false, func(pw []byte, salt core.SaltRecord) (string, error) {
		if len(pw) == 0 {
			return "", errors.New("empty password")
		}
		return fmt.Sprintf("%s/%d", pw, len(salt.Salt)), nil
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(out)
	// Output: [hashcat/0 invalid-password]
}
