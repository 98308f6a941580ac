// Package gpgkeyhash provides the command-line interface for gpgkeyhash.
// The root command converts one private-keys-v1.d file into a hashcat
// mode 17050 line; subcommands scan key directories, check lines, inspect
// key files and work with bridge plugin state.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/gpgkeyhash/gpgkeyhash/cmd/gpgkeyhash"
//	func main() { gpgkeyhash.Execute() }
package gpgkeyhash
