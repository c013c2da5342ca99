// Package testutil provides shared helpers for dirstore tests: in-memory
// filesystems, fault injection, and unique container paths.
//
// Container handles and path locks live in process-wide registries, so
// tests must never share root paths. ContainerPath derives a path from
// the test name to keep tests isolated from each other.
package testutil
