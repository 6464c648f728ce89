// Package loader reads JSON (and YAML) sources into ir trees with
// progress reporting and cooperative cancellation.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/goccy/go-yaml"

	"github.com/snappyview/snappy/ir"
	"github.com/snappyview/snappy/parse"
)

// ErrCanceled reports a load aborted by the cancel flag. It is kept
// distinct from plain parse failures so callers can tell "bad file"
// apart from "user canceled".
var ErrCanceled = errors.New("operation canceled")

// LoadFile parses the JSON (or, by extension, YAML) document at path.
// Progress events carry the file path and total size from stat; the
// cancel flag is polled at every buffered read.
func LoadFile(path string, cancel *atomic.Bool, emit ProgressFunc) (*ir.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %w", path, err)
	}
	defer f.Close()

	var total int64
	if fi, err := f.Stat(); err == nil {
		total = fi.Size()
	}
	return LoadReader(f, path, total, cancel, emit)
}

// LoadReader reads all of src through the progress reader and parses
// it. The path is only used to label progress events.
func LoadReader(src io.Reader, path string, total int64, cancel *atomic.Bool, emit ProgressFunc) (*ir.Node, error) {
	pr := &progressReader{
		inner:      src,
		path:       path,
		totalBytes: total,
		cancel:     cancel,
		emit:       emit,
	}
	data, err := io.ReadAll(pr)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", path, err)
	}

	var root *ir.Node
	var perr error
	if isYAMLPath(path) {
		root, perr = parseYAML(data)
	} else {
		root, perr = parse.Parse(data)
	}
	if perr != nil {
		if cancel != nil && cancel.Load() {
			return nil, fmt.Errorf("%w: %s", ErrCanceled, path)
		}
		return nil, perr
	}
	if cancel != nil && cancel.Load() {
		// Canceled after the last read but before completion; treat a
		// (coincidentally valid) truncated parse as canceled too.
		return nil, fmt.Errorf("%w: %s", ErrCanceled, path)
	}
	return root, nil
}

// LoadText parses in-memory JSON text, e.g. clipboard content.
func LoadText(text string) (*ir.Node, error) {
	return parse.Parse([]byte(text))
}

func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// parseYAML decodes YAML with ordered maps and converts the result to
// the same ir tree JSON produces.
func parseYAML(data []byte) (*ir.Node, error) {
	var v any
	if err := yaml.UnmarshalWithOptions(data, &v, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	return fromYAML(v)
}

func fromYAML(v any) (*ir.Node, error) {
	switch t := v.(type) {
	case nil:
		return ir.Null(), nil
	case bool:
		return ir.FromBool(t), nil
	case string:
		return ir.FromString(t), nil
	case int:
		return ir.FromInt(int64(t)), nil
	case int64:
		return ir.FromInt(t), nil
	case uint64:
		if t <= 1<<63-1 {
			return ir.FromInt(int64(t)), nil
		}
		n, ok := ir.FromNumberLit(strconv.FormatUint(t, 10))
		if !ok {
			return nil, fmt.Errorf("yaml: number out of range")
		}
		return n, nil
	case float64:
		return ir.FromFloat(t), nil
	case yaml.MapSlice:
		obj := ir.NewObject()
		for _, item := range t {
			key, ok := item.Key.(string)
			if !ok {
				key = fmt.Sprint(item.Key)
			}
			child, err := fromYAML(item.Value)
			if err != nil {
				return nil, err
			}
			obj.Append(key, child)
		}
		return obj, nil
	case []any:
		arr := ir.NewArray()
		for _, item := range t {
			child, err := fromYAML(item)
			if err != nil {
				return nil, err
			}
			arr.Append("", child)
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("yaml: unsupported value of type %T", v)
	}
}
