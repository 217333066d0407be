package archive

import (
	"archive/tar"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"

	"github.com/n2code/datacurator/internal/fault"
)

const defaultFilePermissions fs.FileMode = 0o644
const defaultDirPermissions fs.FileMode = 0o755

// TarStream reads the members of a possibly compressed tar archive sequentially.
type TarStream struct {
	*tar.Reader
	closers []func() error //executed in reverse order
}

// OpenTar opens the tar archive at path. Compression is chosen by extension: .tar.gz/.tgz (gzip), .tar.zst/.tzst (zstd), anything else is read as plain tar.
func OpenTar(path string) (*TarStream, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fault.Newf(fault.FileAccess, err, "archive unreadable (%s)", path)
	}
	stream := &TarStream{closers: []func() error{file.Close}}

	var source io.Reader = file
	switch name := strings.ToLower(filepath.Base(path)); {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		decompressor, err := gzip.NewReader(file)
		if err != nil {
			stream.Close()
			return nil, fault.Newf(fault.Archive, err, "gzip stream corrupt (%s)", path)
		}
		stream.closers = append(stream.closers, decompressor.Close)
		source = decompressor
	case strings.HasSuffix(name, ".tar.zst"), strings.HasSuffix(name, ".tzst"):
		decompressor, err := zstd.NewReader(file, zstd.WithDecoderConcurrency(1))
		if err != nil {
			stream.Close()
			return nil, fault.Newf(fault.Archive, err, "zstd stream corrupt (%s)", path)
		}
		stream.closers = append(stream.closers, func() error { decompressor.Close(); return nil })
		source = decompressor
	}
	stream.Reader = tar.NewReader(source)
	return stream, nil
}

// Next advances to the next member, yielding io.EOF at the end. Corruption is reported as archive error.
func (s *TarStream) Next() (*tar.Header, error) {
	header, err := s.Reader.Next()
	if err != nil && err != io.EOF {
		return nil, fault.New(fault.Archive, "reading archive member failed", err)
	}
	return header, err
}

func (s *TarStream) Close() (err error) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if closeErr := s.closers[i](); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	s.closers = nil
	return
}

// SafeJoin resolves the slash-separated archive member name below root and refuses names escaping it.
func SafeJoin(root string, name string) (string, error) {
	native := filepath.FromSlash(strings.TrimSuffix(name, "/"))
	if native == "" || filepath.IsAbs(native) || !filepath.IsLocal(native) {
		return "", fault.Newf(fault.Archive, nil, "archive member %q escapes target directory", name)
	}
	return filepath.Join(root, native), nil
}

// WriteMember copies content into a new file at each destination, reading content only once.
// Existing files are overwritten. Permissions and modification time are applied to every copy.
func WriteMember(destinations []string, content io.Reader, mode fs.FileMode, modified time.Time) (written int64, err error) {
	if len(destinations) == 0 {
		return 0, nil
	}
	perm := mode.Perm()
	if perm == 0 {
		perm = defaultFilePermissions
	}
	writers := make([]io.Writer, 0, len(destinations))
	files := make([]*os.File, 0, len(destinations))
	defer func() {
		for _, file := range files {
			if closeErr := file.Close(); closeErr != nil && err == nil {
				err = fault.Newf(fault.FileAccess, closeErr, "finishing %s failed", file.Name())
			}
		}
		if err != nil || modified.IsZero() {
			return
		}
		for _, destination := range destinations {
			if timeErr := os.Chtimes(destination, modified, modified); timeErr != nil {
				err = fault.Newf(fault.FileAccess, timeErr, "setting time of %s failed", destination)
				return
			}
		}
	}()
	for _, destination := range destinations {
		if err = os.MkdirAll(filepath.Dir(destination), defaultDirPermissions); err != nil {
			return 0, fault.Newf(fault.FileAccess, err, "creating directory for %s failed", destination)
		}
		file, createErr := os.OpenFile(destination, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
		if createErr != nil {
			return 0, fault.Newf(fault.FileAccess, createErr, "creating %s failed", destination)
		}
		files = append(files, file)
		writers = append(writers, file)
	}
	written, err = io.Copy(io.MultiWriter(writers...), content)
	if err != nil {
		return written, fault.New(fault.Archive, "extracting archive member failed", err)
	}
	return written, nil
}

// ZipStats summarizes a zip extraction.
type ZipStats struct {
	Files       int
	Directories int
	Skipped     int //symbolic links and other special entries
	Bytes       int64
}

// ExtractZip unpacks the complete zip archive at path into root, keeping its internal directory structure.
// Entries that would land outside of root abort the extraction.
func ExtractZip(path string, root string, onEntry func(target string)) (stats ZipStats, err error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		if reader != nil {
			reader.Close()
		}
		return stats, fault.Newf(fault.Archive, err, "zip archive unreadable (%s)", path)
	}
	defer reader.Close()

	for _, entry := range reader.File {
		target, joinErr := SafeJoin(root, entry.Name)
		if joinErr != nil {
			return stats, joinErr
		}
		info := entry.FileInfo()
		switch {
		case info.IsDir():
			if err = os.MkdirAll(target, defaultDirPermissions); err != nil {
				return stats, fault.Newf(fault.FileAccess, err, "creating directory %s failed", target)
			}
			stats.Directories++
		case info.Mode().IsRegular():
			content, openErr := entry.Open()
			if openErr != nil {
				return stats, fault.Newf(fault.Archive, openErr, "zip entry %s unreadable (%s)", entry.Name, path)
			}
			written, writeErr := WriteMember([]string{target}, content, info.Mode(), entry.Modified)
			content.Close()
			if writeErr != nil {
				return stats, fault.Newf(fault.Archive, writeErr, "zip entry %s of %s", entry.Name, path)
			}
			stats.Files++
			stats.Bytes += written
		default:
			stats.Skipped++
			continue
		}
		if onEntry != nil {
			onEntry(target)
		}
	}
	return stats, nil
}
