// Package types defines the core types and interfaces used throughout
// dirstore. This includes the FS filesystem abstraction, the container
// Kind markers, the in-memory Set value, and the Operation type produced
// by the bulk-import planner.
package types
