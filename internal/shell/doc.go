// Package shell starts the interactive session konch was asked for.
//
// Three backends are compiled in, tried in a fixed order:
//
//  1. go: a yaegi interpreter session with the context bound both as
//     the konch.Context map and as top-level variables
//  2. lua: a gopher-lua line reader with multiline continuation
//  3. plain: a minimal context inspector that always works
//
// # Selection
//
// The "auto" shell walks the chain and starts the first backend whose
// availability check passes; go and lua want stdin on a terminal, plain
// accepts anything, so piped sessions always land on plain. Naming a
// backend explicitly skips the check and any failure to start it is
// surfaced instead of falling through.
//
// # Hooks
//
// A config's setup hook runs before the session and its teardown hook
// after. Teardown runs whenever setup ran, however the session ended.
// An interrupt cancels the session context: the lua and plain loops
// return in order so teardown still runs, while the go interpreter
// traps interrupts itself and treats them as cancel-current-line.
package shell
