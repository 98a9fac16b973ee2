package mcpack

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

func newZipWriter(w io.Writer) *zip.Writer {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})
	return zw
}

// Archive zips every file under srcDir into dest. Entry names keep the
// directory's own name as their first element. The archive is built next to
// dest and renamed into place, so a failed run leaves dest untouched.
func Archive(srcDir, dest string) (err error) {
	out, err := os.CreateTemp(filepath.Dir(dest), ".mcpack-*")
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err == nil {
			err = os.Rename(out.Name(), dest)
		}
		if err != nil {
			os.Remove(out.Name())
		}
	}()
	zw := newZipWriter(out)
	base := filepath.Base(filepath.Clean(srcDir))
	err = filepath.WalkDir(srcDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:   base + "/" + filepath.ToSlash(rel),
			Method: zip.Deflate,
		})
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	})
	if err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// WriteArchive zips the in-memory tree straight to w, skipping the disk.
func (d *Dir) WriteArchive(w io.Writer) error {
	zw := newZipWriter(w)
	err := d.Walk(func(path string, f *File) error {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: d.Name + "/" + path, Method: zip.Deflate})
		if err != nil {
			return err
		}
		_, err = fw.Write(f.Bytes())
		return err
	})
	if err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// Finish writes the pack under outDir. With compress set the directory is
// archived to <name>.mcpack and removed; the returned path is what remains.
// An existing archive is refused under Fail and replaced otherwise.
func Finish(root *Dir, outDir string, policy OverwritePolicy, compress bool) (string, error) {
	if !compress {
		return root.Write(outDir, policy)
	}
	dest := filepath.Join(outDir, root.Name+".mcpack")
	_, err := os.Stat(dest)
	switch {
	case err == nil && policy == Fail:
		return dest, fmt.Errorf("%w: %s", ErrExists, dest)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return dest, err
	}
	dir, err := root.Write(outDir, policy)
	if err != nil {
		return dir, err
	}
	if err := Archive(dir, dest); err != nil {
		return dir, err
	}
	if err := os.RemoveAll(dir); err != nil {
		return dest, err
	}
	return dest, nil
}
