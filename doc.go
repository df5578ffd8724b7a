// A distribution builder for the BCX Comic Lister desktop application.
//
// macpack turns the already-built application sources into a double-clickable
// macOS application bundle and wraps that bundle into a distributable disk
// image with an installer-style drag-to-Applications window. Both heavy
// lifters (the application bundler and the disk-image tool) are external
// programs invoked as black boxes; macpack contributes the declarative build
// descriptor, the preflight checks, and the fail-fast orchestration around
// them.
//
// See the README.md for the descriptor format and usage info.
package macpack
