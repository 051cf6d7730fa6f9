package storage

import (
	"context"

	"github.com/quiverdb/quiver/dataset"
	"github.com/quiverdb/quiver/qerr"
	"github.com/quiverdb/quiver/record"
)

// SaveMode controls how Save treats an existing destination.
type SaveMode int

const (
	// Overwrite replaces any existing data at the destination.
	Overwrite SaveMode = iota
	// Append adds the dataset's rows after the existing data.
	Append
	// ErrorIfExists fails when the destination already holds data.
	ErrorIfExists
)

// String returns the string representation of the SaveMode.
func (m SaveMode) String() string {
	switch m {
	case Overwrite:
		return "overwrite"
	case Append:
		return "append"
	case ErrorIfExists:
		return "error-if-exists"
	default:
		return "unknown"
	}
}

// ParseSaveMode parses a save mode name.
func ParseSaveMode(mode string) (SaveMode, error) {
	switch mode {
	case "overwrite":
		return Overwrite, nil
	case "append":
		return Append, nil
	case "error-if-exists", "error_if_exists":
		return ErrorIfExists, nil
	default:
		return 0, qerr.New(qerr.InvalidArgument, "unknown save mode %q", mode)
	}
}

// Loader reads a named dataset with a known schema from storage.
type Loader interface {
	Load(ctx context.Context, name string, schema *record.Schema) (*dataset.Dataset, error)
}

// Saver persists a dataset to a destination.
type Saver interface {
	Save(ctx context.Context, d *dataset.Dataset, destination string, mode SaveMode) error
}
