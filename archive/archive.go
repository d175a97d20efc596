// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package archive copies a results tree to object storage.
package archive

import (
	"context"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"

	"cloud.google.com/go/storage"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// A Bucket creates objects by name.
type Bucket interface {
	NewWriter(ctx context.Context, name string) io.WriteCloser
}

// GCS is a Bucket in Google Cloud Storage.
type GCS struct {
	client *storage.Client
	bucket *storage.BucketHandle
}

// NewGCS returns the Google Cloud Storage bucket named bucket. If
// credentials is non-empty, it is the path of a service account key
// file; otherwise the default credentials are used.
func NewGCS(ctx context.Context, bucket, credentials string) (*GCS, error) {
	var opts []option.ClientOption
	if credentials != "" {
		opts = append(opts, option.WithCredentialsFile(credentials))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "creating storage client")
	}
	return &GCS{client: client, bucket: client.Bucket(bucket)}, nil
}

func (g *GCS) NewWriter(ctx context.Context, name string) io.WriteCloser {
	w := g.bucket.Object(name).NewWriter(ctx)
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		w.ContentType = t
	} else {
		w.ContentType = "text/plain; charset=utf-8"
	}
	return w
}

// Close closes the underlying client.
func (g *GCS) Close() error {
	return g.client.Close()
}

// An Archiver uploads every regular file under a directory to a
// Bucket, keeping the relative layout under Prefix.
type Archiver struct {
	Bucket Bucket
	Prefix string
	Log    logrus.FieldLogger
}

// ObjectName returns the name of the object for the file rel, a path
// relative to the archived directory.
func (a *Archiver) ObjectName(rel string) string {
	return path.Join(a.Prefix, filepath.ToSlash(rel))
}

// Archive uploads the tree rooted at dir and returns the number of
// files uploaded. It stops at the first error.
func (a *Archiver) Archive(ctx context.Context, dir string) (int, error) {
	log := a.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	n := 0
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		name := a.ObjectName(rel)
		if err := a.upload(ctx, p, name); err != nil {
			return errors.Wrapf(err, "uploading %s", p)
		}
		log.WithField("object", name).Debug("uploaded")
		n++
		return nil
	})
	return n, err
}

func (a *Archiver) upload(ctx context.Context, file, name string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()
	w := a.Bucket.NewWriter(ctx, name)
	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return err
	}
	// The object is only committed on Close.
	return w.Close()
}
