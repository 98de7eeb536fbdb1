// Package output opens the destination a rendered document is written to.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Stdout is the destination name for the standard output stream.
const Stdout = "-"

// ErrDestination is returned when the destination cannot be opened or
// written.
var ErrDestination = errors.New("output destination unavailable")

// Destination receives one complete document. Close commits it; Discard
// abandons it. Only the first of the two has any effect.
type Destination interface {
	io.Writer
	Close() error
	Discard() error
	Name() string
}

// Open returns the destination for dest. An empty dest or "-" writes to
// stdout, which is never closed. A regular file, or a path that does not exist
// yet, is staged in a temporary file next to it and moved into place on Close,
// so an existing file is only replaced by a complete document. Symlinks are
// followed and the link itself is kept. Anything else, such as a FIFO or a
// device, is opened and written directly.
func Open(dest string, stdout io.Writer) (Destination, error) {
	if dest == "" || dest == Stdout {
		return &streamDestination{w: stdout}, nil
	}

	target := dest
	if resolved, err := filepath.EvalSymlinks(dest); err == nil {
		target = resolved
	}

	// A link that cannot be resolved, such as a dangling one or /dev/fd/N,
	// keeps target == dest and is written through directly.
	info, err := os.Lstat(target)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return openStaged(dest, target, 0o644, false)
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrDestination, err)
	case info.IsDir():
		return nil, fmt.Errorf("%w: %s is a directory", ErrDestination, dest)
	case info.Mode().IsRegular():
		return openStaged(dest, target, info.Mode().Perm(), true)
	default:
		return openDirect(dest)
	}
}

// openStaged creates the staging file next to target. When the directory
// does not allow that but the file exists, the file is truncated and written
// in place instead.
func openStaged(dest, target string, perm os.FileMode, exists bool) (Destination, error) {
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		if exists {
			return openDirect(dest)
		}
		return nil, fmt.Errorf("%w: %w", ErrDestination, err)
	}
	return &fileDestination{path: dest, target: target, perm: perm, tmp: tmp}, nil
}

func openDirect(dest string) (Destination, error) {
	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDestination, err)
	}
	return &directDestination{path: dest, f: f}, nil
}

type streamDestination struct {
	w io.Writer
}

func (s *streamDestination) Write(p []byte) (int, error) { return s.w.Write(p) }
func (s *streamDestination) Close() error                { return nil }
func (s *streamDestination) Discard() error              { return nil }
func (s *streamDestination) Name() string                { return "stdout" }

type fileDestination struct {
	path   string
	target string
	perm   os.FileMode
	tmp    *os.File
	done   bool
}

func (f *fileDestination) Write(p []byte) (int, error) {
	n, err := f.tmp.Write(p)
	if err != nil {
		return n, fmt.Errorf("%w: %w", ErrDestination, err)
	}
	return n, nil
}

func (f *fileDestination) Name() string { return f.path }

// Close moves the staged document over the resolved destination, keeping the
// permission bits of the file it replaces.
func (f *fileDestination) Close() error {
	if f.done {
		return nil
	}
	f.done = true

	if err := f.tmp.Chmod(f.perm); err != nil {
		return f.abort(err)
	}
	if err := f.tmp.Close(); err != nil {
		_ = os.Remove(f.tmp.Name())
		return fmt.Errorf("%w: %w", ErrDestination, err)
	}
	if err := os.Rename(f.tmp.Name(), f.target); err != nil {
		_ = os.Remove(f.tmp.Name())
		return fmt.Errorf("%w: %w", ErrDestination, err)
	}
	return nil
}

// Discard removes the staged document and leaves the destination untouched.
func (f *fileDestination) Discard() error {
	if f.done {
		return nil
	}
	f.done = true
	_ = f.tmp.Close()
	return os.Remove(f.tmp.Name())
}

func (f *fileDestination) abort(cause error) error {
	_ = f.tmp.Close()
	_ = os.Remove(f.tmp.Name())
	return fmt.Errorf("%w: %w", ErrDestination, cause)
}

// directDestination writes straight into a file that cannot be staged. Discard
// cannot restore what was there before.
type directDestination struct {
	path string
	f    *os.File
	done bool
}

func (d *directDestination) Write(p []byte) (int, error) {
	n, err := d.f.Write(p)
	if err != nil {
		return n, fmt.Errorf("%w: %w", ErrDestination, err)
	}
	return n, nil
}

func (d *directDestination) Name() string { return d.path }

func (d *directDestination) Close() error {
	if d.done {
		return nil
	}
	d.done = true
	if err := d.f.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrDestination, err)
	}
	return nil
}

func (d *directDestination) Discard() error {
	if d.done {
		return nil
	}
	d.done = true
	return d.f.Close()
}
