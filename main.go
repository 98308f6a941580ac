package main

import "github.com/gpgkeyhash/gpgkeyhash/cmd/gpgkeyhash"

func main() { gpgkeyhash.Execute() }
