// Package project discovers REAPER project files beneath an input directory.
package project
