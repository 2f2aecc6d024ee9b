// Command check-roms verifies DIAMBRA game ROMs.
//
//	check-roms <rom>...
//
// Each ROM name is joined with the ROM directory taken from DIAMBRAROMSPATH
// and verified with the diambra-arena checksum routine. Without arguments it
// prints a usage line and exits 1; a failing check exits with the
// verifier's status.
package main
