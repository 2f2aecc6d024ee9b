// Package cli hosts the Cobra command graph shared by the romkit binaries.
//
// check-roms and get-diambra-engine-version are thin standalone programs
// built from NewCheckRomsCommand and NewEngineVersionCommand; the romkit
// umbrella binary mounts both under NewRootCommand next to the catalog,
// history, doctor and config commands. Configuration resolution, logger setup
// and collaborator construction live here so the internal packages stay free
// of terminal concerns.
//
// Command results go to the command's stdout; logs and interpreter
// diagnostics go to stderr.
package cli
