// Package testsupport provides fixtures shared by package tests: isolated
// configs, stub engine executables, and project files.
package testsupport
