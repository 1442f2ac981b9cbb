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
	"bytes"
	"context"
	"errors"
	"io/ioutil"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/digitalearthpacific/dep-fc/raster"
)

const geotiffContentType = "image/tiff; application=geotiff"

// S3Store persists artifacts in an S3 bucket
type S3Store struct {
	Bucket string
	Client *s3.Client
	Codec  Codec
}

// NewS3Store creates a store against a bucket, using the default AWS
// credential chain
func NewS3Store(ctx context.Context, bucket string, codec Codec) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, &Error{Op: "configure", Key: bucket, Err: err}
	}
	return &S3Store{
		Bucket: bucket,
		Client: s3.NewFromConfig(cfg),
		Codec:  codec,
	}, nil
}

// Exists implements the Store interface via HeadObject
func (s *S3Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *s3types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, &Error{Op: "head", Key: key, Err: err}
	}
	return true, nil
}

// WriteRaster implements the Store interface
func (s *S3Store) WriteRaster(ctx context.Context, key string, r *raster.Raster) error {
	data, err := s.Codec.Encode(r)
	if err != nil {
		return &Error{Op: "encode", Key: key, Err: err}
	}

	_, err = s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(geotiffContentType),
	})
	if err != nil {
		return &Error{Op: "put", Key: key, Err: err}
	}
	return nil
}

// ReadRaster implements the Store interface
func (s *S3Store) ReadRaster(ctx context.Context, key string, bandNames ...string) (*raster.Raster, error) {
	output, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, &Error{Op: "get", Key: key, Err: err}
	}
	defer output.Body.Close()

	data, err := ioutil.ReadAll(output.Body)
	if err != nil {
		return nil, &Error{Op: "get", Key: key, Err: err}
	}

	r, err := s.Codec.Decode(data, bandNames...)
	if err != nil {
		return nil, &Error{Op: "decode", Key: key, Err: err}
	}
	return r, nil
}

// List implements the Store interface
func (s *S3Store) List(ctx context.Context, prefix string) ([]string, error) {
	keys := []string{}
	paginator := s3.NewListObjectsV2Paginator(s.Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.Bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, &Error{Op: "list", Key: prefix, Err: err}
		}
		for _, object := range page.Contents {
			keys = append(keys, aws.ToString(object.Key))
		}
	}
	sort.Strings(keys)
	return keys, nil
}
