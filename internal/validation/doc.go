// Package validation checks inputs at the edges of the system: file names
// and files on disk before they are read, and request parameters before a
// handler acts on them.
package validation
