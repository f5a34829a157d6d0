// Package output writes downloaded records either as line delimited JSON or
// as one indented JSON document.
package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const indent = "    "

// Writer streams records of type T to an underlying writer. In pretty mode
// the records are wrapped in {"<key>": [...]}, the document is only complete
// once Close was called.
type Writer[T any] struct {
	out    *bufio.Writer
	closer io.Closer
	pretty bool
	key    string
	count  int
}

func New[T any](w io.Writer, pretty bool, key string) *Writer[T] {
	return &Writer[T]{
		out:    bufio.NewWriter(w),
		pretty: pretty,
		key:    key,
	}
}

// Create opens (and truncates) path for writing, creating its parent
// directories.
func Create[T any](path string, pretty bool, key string) (*Writer[T], error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := New[T](f, pretty, key)
	w.closer = f
	return w, nil
}

func encode(record any, prefix string, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if pretty {
		encoder.SetIndent(prefix, indent)
	}
	err := encoder.Encode(record)
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (w *Writer[T]) header() string {
	return fmt.Sprintf("{\n%s%q: [\n", indent, w.key)
}

func (w *Writer[T]) Write(record T) error {
	if !w.pretty {
		encoded, err := encode(record, "", false)
		if err != nil {
			return err
		}
		w.out.Write(encoded)
		w.count++
		return w.out.WriteByte('\n')
	}

	prefix := strings.Repeat(indent, 2)
	encoded, err := encode(record, prefix, true)
	if err != nil {
		return err
	}
	if w.count == 0 {
		w.out.WriteString(w.header())
	} else {
		w.out.WriteString(",\n")
	}
	w.out.WriteString(prefix)
	_, err = w.out.Write(encoded)
	w.count++
	return err
}

// Count is the number of records written so far.
func (w *Writer[T]) Count() int {
	return w.count
}

// Flush pushes buffered records to the underlying writer.
func (w *Writer[T]) Flush() error {
	return w.out.Flush()
}

// Close finishes the document, flushes it and closes the file opened by
// Create.
func (w *Writer[T]) Close() error {
	if w.pretty {
		if w.count == 0 {
			w.out.WriteString(w.header())
		} else {
			w.out.WriteString("\n")
		}
		w.out.WriteString(indent + "]\n}\n")
	}
	err := w.out.Flush()
	if w.closer != nil {
		closeErr := w.closer.Close()
		if err == nil {
			err = closeErr
		}
	}
	return err
}
