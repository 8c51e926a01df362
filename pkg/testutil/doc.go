// Package testutil provides utilities for testing agentsync components.
//
// Key components:
//   - TestEnvironment: isolated source/target directory pair in a temp dir
//   - FaultFS: types.FS wrapper that injects errors per operation and path
//
// Usage guidelines:
//   - Tests use the real filesystem inside t.TempDir(); symlink semantics
//     are the subject under test and must not be simulated
//   - All test data should be defined inline, not in external files
package testutil
