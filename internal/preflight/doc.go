// Package preflight runs the environment checks reported by the check
// command: engine availability, directory access, and leftover temp files.
package preflight
