package types

// OperationType defines the type of file system operation
type OperationType string

const (
	// OperationCreateDir creates a directory
	OperationCreateDir OperationType = "create_dir"

	// OperationWriteFile writes content to a file
	OperationWriteFile OperationType = "write_file"

	// OperationDelete removes a file or directory tree
	OperationDelete OperationType = "delete"
)

// Operation represents a low-level file system operation planned by the
// bulk importer. These are the actual operations performed by synthfs.
type Operation struct {
	// Type is the type of operation
	Type OperationType

	// Target is the target path
	Target string

	// Content is the content to write (for write operations)
	Content string

	// Mode is the file or directory permissions (optional)
	Mode *uint32

	// Description is a human-readable description
	Description string
}
