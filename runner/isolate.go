// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runner

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// copyTree copies the directory tree src to dst, which must not exist
// or be empty. Regular files keep their permission bits and symbolic
// links are recreated as links. The directory exclude, if non-empty,
// is not copied.
func copyTree(src, dst, exclude string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if exclude != "" && d.IsDir() && path == exclude {
			return filepath.SkipDir
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		info, err := d.Info()
		if err != nil {
			return err
		}
		switch {
		case d.IsDir():
			return os.MkdirAll(target, info.Mode().Perm()|0700)
		case info.Mode()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		case info.Mode().IsRegular():
			return copyFile(path, target, info.Mode().Perm())
		}
		// Sockets, devices and the like are not part of a source tree.
		return nil
	})
}

func copyFile(src, dst string, perm fs.FileMode) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(out, in); err != nil {
		return errors.Wrapf(err, "copying %s", src)
	}
	return nil
}

// isolate creates a private copy of the source tree for one job and
// returns its path and a function that removes it.
func (r *Runner) isolate(job string) (string, func(), error) {
	src, err := filepath.Abs(r.SourceDir)
	if err != nil {
		return "", nil, err
	}
	exclude, err := filepath.Abs(r.ResultsRoot)
	if err != nil {
		return "", nil, err
	}
	tmp, err := os.MkdirTemp("", "sweep-build-")
	if err != nil {
		return "", nil, errors.Wrap(err, "creating build directory")
	}
	cleanup := func() { os.RemoveAll(tmp) }
	if err := copyTree(src, tmp, exclude); err != nil {
		cleanup()
		return "", nil, errors.Wrapf(err, "copying %s for job %s", src, job)
	}
	return tmp, cleanup, nil
}
