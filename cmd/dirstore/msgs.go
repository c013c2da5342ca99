package dirstore

import _ "embed"

// Long texts live under msgs/ so they can be edited without touching code.

//go:embed msgs/root-long.txt
var MsgRootLong string

//go:embed msgs/import-long.txt
var MsgImportLong string

//go:embed msgs/usage-template.txt
var MsgUsageTemplate string

// Command shorts.
const (
	MsgRootShort      = "Persistent maps, sets and sequences stored as directory trees"
	MsgSetShort       = "Set a map entry"
	MsgGetShort       = "Print a map entry or sequence element"
	MsgDelShort       = "Delete a map entry, set member or sequence element"
	MsgHasShort       = "Report whether a key or member is present"
	MsgKeysShort      = "List map keys or set members"
	MsgLenShort       = "Print the number of entries in a container"
	MsgAddShort       = "Add a member to a set"
	MsgDiscardShort   = "Remove a set member if present"
	MsgAppendShort    = "Append a value to a sequence"
	MsgInsertShort    = "Insert a value into a sequence at an index"
	MsgAtShort        = "Print the sequence element at an index"
	MsgSetAtShort     = "Replace the sequence element at an index"
	MsgSliceShort     = "Print a slice of a sequence"
	MsgClearShort     = "Remove every entry from a container"
	MsgDestroyShort   = "Delete a container and its tree"
	MsgCheckShort     = "Verify a container tree on disk"
	MsgImportShort    = "Create a container from a YAML document"
	MsgExportShort    = "Print a container as a YAML document"
	MsgGenConfigShort = "Print or write the default configuration"
	MsgVersionShort   = "Print version information"
)

// Flag usage strings.
const (
	MsgFlagVerbose   = "Increase verbosity (-v info, -vv debug, -vvv trace)"
	MsgFlagRoot      = "Store root directory (overrides config and DIRSTORE_ROOT)"
	MsgFlagDryRun    = "Print planned operations without applying them"
	MsgFlagForce     = "Replace the container if it already exists"
	MsgFlagKind      = "Force the container kind (map, seq or set)"
	MsgFlagWrite     = "Write the config file instead of printing it"
	MsgFlagEffective = "Print the resolved configuration instead of the template"
)

// Status output.
const (
	MsgCheckOK             = "ok"
	MsgDryRunHeader        = "Would apply %d operation(s) to %s:"
	MsgDryRunOpFormat      = "  %-12s %s"
	MsgImportedFormat      = "Imported %s (%d operations)"
	MsgConfigWrittenFormat = "Config written to %s"
	MsgVersionFormat       = "dirstore %s (commit %s, built %s)"
)
