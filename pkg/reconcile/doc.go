// Package reconcile keeps target directories holding exactly one symlink
// per directory child of a source directory.
//
// A job runs in two phases. The forward pass walks a snapshot of the
// source directory and, for each directory child, creates the missing
// link, counts an existing valid link as skipped, replaces a broken link,
// or reports a conflict for a real file or directory occupying the name.
// The sweep then walks a snapshot of the target directory and removes
// every broken link, including links left behind by sources that no
// longer exist. Valid links, files and directories are never touched.
//
// The package emits types.Event values through an Observer and returns
// counters; it never prints.
package reconcile
