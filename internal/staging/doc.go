// Package staging sweeps patched project copies that an interrupted run
// left in the temp directory.
package staging
