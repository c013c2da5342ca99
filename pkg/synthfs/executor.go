// Package synthfs applies planned filesystem operations through the
// synthfs library. The store's import planner emits a flat list of
// operations describing a container tree; this package turns them into
// a synthfs pipeline and runs it against the real filesystem, or logs
// them when dry-run is requested.
package synthfs

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/dirstore/pkg/errors"
	"github.com/arthur-debert/dirstore/pkg/logging"
	"github.com/arthur-debert/dirstore/pkg/types"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/core"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/arthur-debert/synthfs/pkg/synthfs/operations"
	"github.com/rs/zerolog"
)

// SynthfsExecutor executes planned store operations using synthfs
type SynthfsExecutor struct {
	logger     zerolog.Logger
	dryRun     bool
	filesystem synthfs.FileSystem
}

// NewSynthfsExecutor creates a new synthfs-based executor
func NewSynthfsExecutor(dryRun bool) *SynthfsExecutor {
	return &SynthfsExecutor{
		logger:     logging.GetLogger("store.synthfs"),
		dryRun:     dryRun,
		filesystem: filesystem.NewOSFileSystem("/"), // Use root filesystem
	}
}

// ExecuteOperations executes a list of operations using synthfs
func (e *SynthfsExecutor) ExecuteOperations(ops []types.Operation) error {
	if e.dryRun {
		e.logger.Info().Msg("Dry run mode - operations would be executed:")
		for _, op := range ops {
			e.logOperation(op)
		}
		return nil
	}

	// Convert planned operations to synthfs operations
	synthOps := make([]synthfs.Operation, 0, len(ops))
	for _, op := range ops {
		synthOp, err := e.convertToSynthfsOperation(op)
		if err != nil {
			return errors.Wrapf(err, errors.ErrInvalidInput,
				"failed to convert operation: %s", op.Description)
		}
		synthOps = append(synthOps, synthOp)
	}

	if len(synthOps) == 0 {
		e.logger.Info().Msg("No operations to execute")
		return nil
	}

	// Create a synthfs pipeline with the operations
	pipeline := synthfs.NewMemPipeline()
	for _, op := range synthOps {
		if err := pipeline.Add(op); err != nil {
			return errors.Wrapf(err, errors.ErrStorage,
				"failed to add operation to pipeline")
		}
	}

	// Execute the pipeline
	ctx := context.Background()
	executor := synthfs.NewExecutor()

	e.logger.Info().Int("operationCount", len(synthOps)).Msg("Executing operations")

	result := executor.Run(ctx, pipeline, e.filesystem)
	if result.GetError() != nil {
		e.logger.Error().Err(result.GetError()).Msg("Pipeline execution failed")
		return errors.Wrapf(result.GetError(), errors.ErrStorage,
			"failed to execute operations")
	}

	e.logger.Info().Msg("All operations executed successfully")
	return nil
}

// convertToSynthfsOperation converts a planned operation to a synthfs operation
func (e *SynthfsExecutor) convertToSynthfsOperation(op types.Operation) (synthfs.Operation, error) {
	switch op.Type {
	case types.OperationCreateDir:
		return e.convertCreateDir(op)
	case types.OperationWriteFile:
		return e.convertWriteFile(op)
	case types.OperationDelete:
		return e.convertDelete(op)
	default:
		return nil, errors.Newf(errors.ErrInvalidInput,
			"unsupported operation type: %s", op.Type)
	}
}

// convertCreateDir converts a create directory operation
func (e *SynthfsExecutor) convertCreateDir(op types.Operation) (synthfs.Operation, error) {
	if op.Target == "" {
		return nil, errors.New(errors.ErrInvalidInput,
			"create directory operation requires target")
	}

	mode := os.FileMode(0755)
	if op.Mode != nil {
		mode = os.FileMode(*op.Mode)
	}

	e.logger.Debug().
		Str("target", op.Target).
		Str("mode", mode.String()).
		Msg("Creating directory operation")

	// Convert absolute path to relative for synthfs
	relPath, err := filepath.Rel("/", op.Target)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput,
			"failed to convert path: %s", op.Target)
	}

	opID := core.OperationID(fmt.Sprintf("create-dir-%s", op.Target))
	createOp := operations.NewCreateDirectoryOperation(opID, relPath)

	// Set the mode via item
	createOp.SetItem(&directoryItem{
		path: relPath,
		mode: mode,
	})

	return synthfs.NewOperationsPackageAdapter(createOp), nil
}

// convertWriteFile converts a write file operation
func (e *SynthfsExecutor) convertWriteFile(op types.Operation) (synthfs.Operation, error) {
	if op.Target == "" {
		return nil, errors.New(errors.ErrInvalidInput,
			"write file operation requires target")
	}

	mode := os.FileMode(0644)
	if op.Mode != nil {
		mode = os.FileMode(*op.Mode)
	}

	e.logger.Debug().
		Str("target", op.Target).
		Str("mode", mode.String()).
		Int("contentLen", len(op.Content)).
		Msg("Creating write file operation")

	// Convert absolute path to relative for synthfs
	relPath, err := filepath.Rel("/", op.Target)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput,
			"failed to convert path: %s", op.Target)
	}

	opID := core.OperationID(fmt.Sprintf("write-file-%s", op.Target))
	createOp := operations.NewCreateFileOperation(opID, relPath)

	// Set the content via item
	createOp.SetItem(&fileItem{
		path:    relPath,
		content: []byte(op.Content),
		mode:    mode,
	})

	return synthfs.NewOperationsPackageAdapter(createOp), nil
}

// convertDelete converts a delete operation
func (e *SynthfsExecutor) convertDelete(op types.Operation) (synthfs.Operation, error) {
	if op.Target == "" {
		return nil, errors.New(errors.ErrInvalidInput,
			"delete operation requires target")
	}

	e.logger.Debug().
		Str("target", op.Target).
		Msg("Creating delete operation")

	// Convert absolute path to relative for synthfs
	relPath, err := filepath.Rel("/", op.Target)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput,
			"failed to convert path: %s", op.Target)
	}

	opID := core.OperationID(fmt.Sprintf("delete-%s", op.Target))
	deleteOp := operations.NewDeleteOperation(opID, relPath)

	return synthfs.NewOperationsPackageAdapter(deleteOp), nil
}

// logOperation logs details about an operation
func (e *SynthfsExecutor) logOperation(op types.Operation) {
	logger := e.logger.With().
		Str("type", string(op.Type)).
		Str("description", op.Description).
		Logger()

	switch op.Type {
	case types.OperationCreateDir:
		logger.Info().
			Str("target", op.Target).
			Msg("Would create directory")
	case types.OperationWriteFile:
		logger.Info().
			Str("target", op.Target).
			Int("contentLen", len(op.Content)).
			Msg("Would write file")
	case types.OperationDelete:
		logger.Info().
			Str("target", op.Target).
			Msg("Would delete")
	default:
		logger.Info().Msg("Would execute operation")
	}
}

// Item types for synthfs operations

// fileItem implements the interface needed for file operations
type fileItem struct {
	path    string
	content []byte
	mode    fs.FileMode
}

func (f *fileItem) Path() string       { return f.path }
func (f *fileItem) Type() string       { return "file" }
func (f *fileItem) Content() []byte    { return f.content }
func (f *fileItem) Mode() fs.FileMode  { return f.mode }
func (f *fileItem) IsDir() bool        { return false }
func (f *fileItem) ModTime() time.Time { return time.Now() }
func (f *fileItem) Size() int64        { return int64(len(f.content)) }

// directoryItem implements the interface needed for directory operations
type directoryItem struct {
	path string
	mode fs.FileMode
}

func (d *directoryItem) Path() string       { return d.path }
func (d *directoryItem) Type() string       { return "directory" }
func (d *directoryItem) Mode() fs.FileMode  { return d.mode }
func (d *directoryItem) IsDir() bool        { return true }
func (d *directoryItem) ModTime() time.Time { return time.Now() }
func (d *directoryItem) Size() int64        { return 0 }
