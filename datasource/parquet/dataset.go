// Package parquet is a collection.Collection[T] driver reading typed rows
// out of a Parquet file via parquet-go's GenericReader, grounded on the
// teacher's fsqr example loader's low-level parquet.File usage but using
// the struct-tag-driven high level reader instead of manual column
// resolution, since T here is a caller-supplied record type rather than a
// fixed schema.
package parquet

import (
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/kailas-cloud/featureflow/internal/domain/collection"
)

const batchSize = 256

// Dataset streams rows of T from a Parquet file at path, using T's
// `parquet:"..."` struct tags for the column mapping. It opens a fresh
// reader per traversal, so the same Dataset backs both the fit pass and
// any number of subsequent emit passes without holding a file handle
// between calls.
type Dataset[T any] struct {
	path string
}

// Open validates that path exists and returns a Dataset over it. It does
// not parse the Parquet footer; a malformed file only surfaces once a
// traversal method is called.
func Open[T any](path string) (*Dataset[T], error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("datasource/parquet: %w", err)
	}
	return &Dataset[T]{path: path}, nil
}

var _ collection.Collection[struct{}] = (*Dataset[struct{}])(nil)

// ForEach implements collection.Collection. The interface offers no error
// return and the engine assumes ForEach never fails; a missing or
// corrupt Parquet file is treated as a fatal precondition failure and
// panics rather than silently truncating the dataset.
func (d *Dataset[T]) ForEach(f func(T)) {
	r, file := d.mustOpenReader()
	defer file.Close()
	defer r.Close()

	buf := make([]T, batchSize)
	for {
		n, err := r.Read(buf)
		for i := 0; i < n; i++ {
			f(buf[i])
		}
		if err != nil {
			if err != io.EOF {
				panic(fmt.Errorf("datasource/parquet: read %s: %w", d.path, err))
			}
			return
		}
	}
}

// Reduce implements collection.Collection via a left-to-right fold over
// the file's row order.
func (d *Dataset[T]) Reduce(combine func(T, T) T) (T, bool) {
	var acc T
	first := true
	d.ForEach(func(t T) {
		if first {
			acc = t
			first = false
			return
		}
		acc = combine(acc, t)
	})
	return acc, !first
}

// Len implements collection.Collection by reading the Parquet footer's row
// count, without scanning row data.
func (d *Dataset[T]) Len() int {
	f, err := os.Open(d.path)
	if err != nil {
		return -1
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return -1
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return -1
	}
	return int(pf.NumRows())
}

func (d *Dataset[T]) mustOpenReader() (*parquet.GenericReader[T], *os.File) {
	f, err := os.Open(d.path)
	if err != nil {
		panic(fmt.Errorf("datasource/parquet: open %s: %w", d.path, err))
	}
	r := parquet.NewGenericReader[T](f)
	return r, f
}
