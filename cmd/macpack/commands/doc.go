// Package commands wires up the macpack command-line interface.
package commands
