package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/quiverdb/quiver/dataset"
	"github.com/quiverdb/quiver/qerr"
	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/types"
)

var (
	_ Loader = (*ParquetStore)(nil)
	_ Saver  = (*ParquetStore)(nil)
)

// ParquetStore loads and saves datasets as parquet files under a root
// directory. One dataset maps to one file named <name>.parquet.
type ParquetStore struct {
	// Root is the directory holding the parquet files.
	Root string

	// Partitions is the partition count given to loaded datasets.
	// Zero means one partition.
	Partitions int
}

// NewParquetStore creates a store rooted at the given directory.
func NewParquetStore(root string, partitions int) *ParquetStore {
	return &ParquetStore{Root: root, Partitions: partitions}
}

func (s *ParquetStore) path(name string) string {
	return filepath.Join(s.Root, name+".parquet")
}

// Load reads the named parquet file and binds its rows to the given
// schema.
func (s *ParquetStore) Load(ctx context.Context, name string, schema *record.Schema) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, qerr.Wrap(qerr.ExecutionError, err, "load %q cancelled", name)
	}

	fr, err := local.NewLocalFileReader(s.path(name))
	if err != nil {
		return nil, qerr.Wrap(qerr.InvalidArgument, err, "cannot open dataset %q", name)
	}
	defer fr.Close()

	schemaStr, err := parquetSchemaString(schema)
	if err != nil {
		return nil, err
	}
	pr, err := reader.NewParquetReader(fr, schemaStr, 4)
	if err != nil {
		return nil, qerr.Wrap(qerr.SchemaError, err, "dataset %q does not match the requested schema", name)
	}
	defer pr.ReadStop()

	raw, err := pr.ReadByNumber(int(pr.GetNumRows()))
	if err != nil {
		return nil, qerr.Wrap(qerr.ExecutionError, err, "error reading rows of dataset %q", name)
	}

	rows := make([]record.Row, 0, len(raw))
	for i, item := range raw {
		row, err := rowFromStruct(item, schema)
		if err != nil {
			return nil, qerr.Wrap(qerr.SchemaError, err, "dataset %q: row %d", name, i)
		}
		rows = append(rows, row)
	}

	partitions := s.Partitions
	if partitions < 1 {
		partitions = 1
	}
	return dataset.New(name, schema, rows, partitions)
}

// Save writes the dataset to <destination>.parquet under the store root,
// honoring the save mode.
func (s *ParquetStore) Save(ctx context.Context, d *dataset.Dataset, destination string, mode SaveMode) error {
	if err := ctx.Err(); err != nil {
		return qerr.Wrap(qerr.ExecutionError, err, "save %q cancelled", destination)
	}

	path := s.path(destination)
	_, statErr := os.Stat(path)
	exists := statErr == nil

	rows := d.Rows()
	switch mode {
	case ErrorIfExists:
		if exists {
			return qerr.New(qerr.InvalidArgument, "destination %q already exists and save mode is %s", destination, mode)
		}
	case Append:
		if exists {
			existing, err := s.Load(ctx, destination, d.Schema())
			if err != nil {
				return err
			}
			rows = append(existing.Rows(), rows...)
		}
	case Overwrite:
		// A fresh write below replaces the file either way.
	default:
		return qerr.New(qerr.InvalidArgument, "unknown save mode %d", mode)
	}

	if err := os.MkdirAll(s.Root, 0o755); err != nil {
		return qerr.Wrap(qerr.ExecutionError, err, "cannot create store root %q", s.Root)
	}

	schemaStr, err := parquetSchemaString(d.Schema())
	if err != nil {
		return err
	}

	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return qerr.Wrap(qerr.ExecutionError, err, "cannot create destination %q", destination)
	}
	pw, err := writer.NewJSONWriter(schemaStr, fw, 4)
	if err != nil {
		fw.Close()
		return qerr.Wrap(qerr.ExecutionError, err, "error creating parquet writer for %q", destination)
	}

	fields := d.Schema().Fields()
	for _, row := range rows {
		m := make(map[string]any, len(fields))
		for i, field := range fields {
			m[field] = row.Value(i)
		}
		b, err := json.Marshal(m)
		if err != nil {
			fw.Close()
			return qerr.Wrap(qerr.ExecutionError, err, "error encoding row for %q", destination)
		}
		if err := pw.Write(string(b)); err != nil {
			fw.Close()
			return qerr.Wrap(qerr.ExecutionError, err, "error writing row to %q", destination)
		}
	}
	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return qerr.Wrap(qerr.ExecutionError, err, "error finalizing %q", destination)
	}
	return fw.Close()
}

// jsonSchemaNode mirrors the JSON schema format parquet-go's JSON
// reader/writer accept.
type jsonSchemaNode struct {
	Tag    string            `json:"Tag"`
	Fields []*jsonSchemaNode `json:"Fields,omitempty"`
}

// parquetSchemaString renders a record schema as a parquet-go JSON
// schema.
func parquetSchemaString(schema *record.Schema) (string, error) {
	root := &jsonSchemaNode{Tag: "name=parquet_go_root, repetitiontype=REQUIRED"}
	for _, field := range schema.Fields() {
		tag, err := parquetTag(field, schema.Type(field))
		if err != nil {
			return "", err
		}
		root.Fields = append(root.Fields, &jsonSchemaNode{Tag: tag})
	}
	b, err := json.Marshal(root)
	if err != nil {
		return "", qerr.Wrap(qerr.ExecutionError, err, "error encoding parquet schema")
	}
	return string(b), nil
}

func parquetTag(field string, fieldType types.SchemaType) (string, error) {
	switch fieldType {
	case types.Integer, types.Long:
		return fmt.Sprintf("name=%s, type=INT64, repetitiontype=REQUIRED", field), nil
	case types.Double:
		return fmt.Sprintf("name=%s, type=DOUBLE, repetitiontype=REQUIRED", field), nil
	case types.Varchar:
		return fmt.Sprintf("name=%s, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=REQUIRED", field), nil
	case types.Boolean:
		return fmt.Sprintf("name=%s, type=BOOLEAN, repetitiontype=REQUIRED", field), nil
	default:
		return "", qerr.New(qerr.SchemaError, "column %q: type %s cannot be stored as parquet", field, fieldType)
	}
}

// rowFromStruct converts one struct returned by the parquet reader back
// into a row in schema column order. The reader capitalizes column names
// to make struct fields exported, so matching is case-insensitive.
func rowFromStruct(item any, schema *record.Schema) (record.Row, error) {
	v := reflect.ValueOf(item)
	typeOf := v.Type()

	byName := make(map[string]any, v.NumField())
	for i := 0; i < v.NumField(); i++ {
		byName[strings.ToLower(typeOf.Field(i).Name)] = v.Field(i).Interface()
	}

	values := make([]any, 0, schema.Arity())
	for _, field := range schema.Fields() {
		raw, ok := byName[strings.ToLower(field)]
		if !ok {
			return record.Row{}, fmt.Errorf("column %q not present in file", field)
		}
		value, err := coerceLoaded(raw, schema.Type(field))
		if err != nil {
			return record.Row{}, fmt.Errorf("column %q: %w", field, err)
		}
		values = append(values, value)
	}
	return record.NewRow(values...), nil
}

func coerceLoaded(raw any, fieldType types.SchemaType) (any, error) {
	switch fieldType {
	case types.Integer:
		if v, ok := raw.(int64); ok {
			return int(v), nil
		}
	case types.Long:
		if v, ok := raw.(int64); ok {
			return v, nil
		}
	case types.Double:
		if v, ok := raw.(float64); ok {
			return v, nil
		}
	case types.Varchar:
		if v, ok := raw.(string); ok {
			return v, nil
		}
	case types.Boolean:
		if v, ok := raw.(bool); ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("value %v (%T) is not a %s", raw, raw, fieldType)
}
