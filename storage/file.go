// Copyright 2025, Digital Earth Pacific
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"context"
	"io/fs"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/digitalearthpacific/dep-fc/raster"
)

// FileStore persists artifacts under a local directory, mirroring the
// bucket key layout. Used for development runs against local output.
type FileStore struct {
	Root  string
	Codec Codec
}

// NewFileStore creates a store rooted at dir
func NewFileStore(dir string, codec Codec) *FileStore {
	return &FileStore{Root: dir, Codec: codec}
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.Root, filepath.FromSlash(key))
}

// Exists implements the Store interface
func (s *FileStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(s.path(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, &Error{Op: "stat", Key: key, Err: err}
	}
	return true, nil
}

// WriteRaster implements the Store interface
func (s *FileStore) WriteRaster(ctx context.Context, key string, r *raster.Raster) error {
	data, err := s.Codec.Encode(r)
	if err != nil {
		return &Error{Op: "encode", Key: key, Err: err}
	}

	path := s.path(key)
	if err = os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &Error{Op: "mkdir", Key: key, Err: err}
	}
	if err = ioutil.WriteFile(path, data, 0644); err != nil {
		return &Error{Op: "write", Key: key, Err: err}
	}
	return nil
}

// ReadRaster implements the Store interface
func (s *FileStore) ReadRaster(ctx context.Context, key string, bandNames ...string) (*raster.Raster, error) {
	data, err := ioutil.ReadFile(s.path(key))
	if err != nil {
		return nil, &Error{Op: "read", Key: key, Err: err}
	}
	r, err := s.Codec.Decode(data, bandNames...)
	if err != nil {
		return nil, &Error{Op: "decode", Key: key, Err: err}
	}
	return r, nil
}

// List implements the Store interface
func (s *FileStore) List(ctx context.Context, prefix string) ([]string, error) {
	keys := []string{}
	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, relErr := filepath.Rel(s.Root, path)
		if relErr != nil {
			return relErr
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if os.IsNotExist(err) {
		return keys, nil
	}
	if err != nil {
		return nil, &Error{Op: "list", Key: prefix, Err: err}
	}
	sort.Strings(keys)
	return keys, nil
}
