package output

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"tlharvest/pkg/config"
	errs "tlharvest/pkg/errors"
	"tlharvest/pkg/logger"
)

// Options configure file naming and rotation
type Options struct {
	Directory      string
	Prefix         string
	RowsPerFile    int
	SequenceDigits int
	Naming         string
	Compress       bool
}

// Writer appends JSON lines to size-capped output files. At most one file is
// open at a time; it is created lazily on the first write after open or
// rotation. Writer is not safe for concurrent use.
type Writer struct {
	opts   Options
	logger logger.Logger
	now    func() time.Time

	file  *os.File
	buf   *bufio.Writer
	path  string
	count int
	seq   int // number of the next sequence-named file, from 1
	files []string
}

// NewWriter creates the output directory and returns a writer with no file open
func NewWriter(opts Options, log logger.Logger) (*Writer, error) {
	if opts.RowsPerFile <= 0 {
		return nil, fmt.Errorf("rows per file must be positive, got %d", opts.RowsPerFile)
	}
	if opts.SequenceDigits <= 0 {
		opts.SequenceDigits = 3
	}
	if opts.Naming == "" {
		opts.Naming = config.NamingSequence
	}
	if log == nil {
		log = logger.GetLogger()
	}

	if err := os.MkdirAll(opts.Directory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Writer{
		opts:   opts,
		logger: log,
		now:    time.Now,
		seq:    1,
	}, nil
}

// Write appends v as one compact JSON line. A value that cannot be
// serialized is logged and dropped without touching the writer state; the
// returned error wraps errors.ErrSerialization so callers can tell a drop
// from a write, and the writer keeps accepting records.
func (w *Writer) Write(v any) error {
	line, err := json.Marshal(v)
	if err != nil {
		w.logger.WithError(err).Warn("Dropping record that could not be serialized")
		return fmt.Errorf("%w: %v", errs.ErrSerialization, err)
	}

	if w.file == nil {
		if err := w.open(); err != nil {
			return err
		}
	}

	if _, err := w.buf.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write record to %s: %w", w.path, err)
	}
	w.count++

	if w.count >= w.opts.RowsPerFile {
		return w.finish()
	}
	return nil
}

// Close finishes the open file, compressing it if configured. It is a no-op
// when no file is open and may be called any number of times.
func (w *Writer) Close() error {
	if w.file == nil {
		return nil
	}
	return w.finish()
}

// Files returns the completed output files in creation order
func (w *Writer) Files() []string {
	out := make([]string, len(w.files))
	copy(out, w.files)
	return out
}

// Count returns the number of records in the open file
func (w *Writer) Count() int {
	return w.count
}

func (w *Writer) open() error {
	var (
		path string
		file *os.File
		err  error
	)

	switch w.opts.Naming {
	case config.NamingTimestamp:
		path, file, err = w.createUnique(w.opts.Prefix + w.now().Format("20060102-150405"))
	default:
		path = filepath.Join(w.opts.Directory, fmt.Sprintf("%s%0*d.json", w.opts.Prefix, w.opts.SequenceDigits, w.seq))
		file, err = os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	}
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}

	w.seq++
	w.file = file
	w.buf = bufio.NewWriterSize(file, 64*1024)
	w.path = path
	w.count = 0

	w.logger.DebugWithFields("Opened output file", map[string]interface{}{"path": path})
	return nil
}

// createUnique opens <base>.json, or <base>-N.json if files of that name
// already exist
func (w *Writer) createUnique(base string) (string, *os.File, error) {
	for n := 0; ; n++ {
		name := base + ".json"
		if n > 0 {
			name = fmt.Sprintf("%s-%d.json", base, n)
		}
		path := filepath.Join(w.opts.Directory, name)

		file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		return path, file, err
	}
}

// finish flushes and closes the open file, then compresses it if configured.
// The writer is left with no open file even when an error is returned.
func (w *Writer) finish() error {
	path, rows := w.path, w.count
	flushErr := w.buf.Flush()
	closeErr := w.file.Close()

	w.file = nil
	w.buf = nil
	w.path = ""
	w.count = 0

	if err := errors.Join(flushErr, closeErr); err != nil {
		w.files = append(w.files, path)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	final := path
	if w.opts.Compress {
		zipPath, err := compressFile(path)
		if err != nil {
			w.files = append(w.files, path)
			return fmt.Errorf("failed to compress %s: %w", path, err)
		}
		final = zipPath
	}

	w.files = append(w.files, final)
	logger.LogRotation(w.logger, final, rows, w.opts.Compress)
	return nil
}
