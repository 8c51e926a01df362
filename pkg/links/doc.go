// Package links classifies filesystem paths as symlinks and creates or
// removes them.
//
// Classify never mutates and never fails: every path is Absent, a valid
// link, a broken link or a foreign entry. A dangling link is an ordinary
// outcome. Foreign entries (real files and directories) are never deleted
// or overwritten by anything in this package.
//
// Known limitation: the state of a path can change between classifying it
// and acting on it. Nothing here locks the filesystem; a concurrent writer
// can still win that race.
package links
