// Package romcheck verifies game ROM archives against their known checksums.
//
// A Checker resolves each requested file name against the ROM directory and
// hands the resulting path to a Verifier, one call per ROM and in argument
// order. Two verifiers ship with romkit: PythonVerifier delegates to the
// diambra-arena checksum routine through the configured interpreter, and
// CatalogVerifier hashes the archive natively and compares it with the local
// catalog.
package romcheck
