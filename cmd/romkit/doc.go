// Command romkit bundles check-roms and get-diambra-engine-version with ROM
// catalog management, check history, environment diagnostics and
// configuration scaffolding.
package main
