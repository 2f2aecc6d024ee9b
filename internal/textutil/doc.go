// Package textutil turns ROM file names into catalog identifiers and display
// titles.
package textutil
