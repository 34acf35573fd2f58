// Package ioutils provides file system utilities for stemfetch.
//
// This package contains functions for:
//   - File writing
//   - Filename sanitization
//   - Directory creation
//
// All functions that accept a context.Context respect cancellation,
// though file operations themselves may not be interruptible.
package ioutils
