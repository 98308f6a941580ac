// Package core provides a small, stable facade over gpgkeyhash's internal
// packages for programs that embed the extractor.
//
// Example:
//
//	line, err := core.ExtractFile(path)
//	if err != nil { /* handle */ }
//	fmt.Println(line)
package core
