// Package history records per-project render outcomes in a small SQLite
// database so past runs can be inspected with the history command.
package history
