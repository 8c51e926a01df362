// Package tools turns the tool path table and the user's target and type
// selection into the list of reconciliation jobs the engine runs.
//
// The table is an explicit value built from configuration; nothing in
// this package reads global state or the filesystem.
package tools
