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

package util

import "os"

// Environment variables
const (
	STAC_API_URL  = "STAC_API_URL"
	FC_BUCKET     = "FC_BUCKET"
	FC_VERSION    = "FC_VERSION"
	AWS_REGION    = "AWS_REGION"
	STAC_AUTH_KEY = "STAC_AUTH_KEY"
	FC_LOCAL_DIR  = "FC_LOCAL_DIR"
)

const defaultStacAPIURL = "https://landsatlook.usgs.gov/stac-server"
const defaultBucket = "dep-public-data"
const defaultVersion = "0.1.0"

// GetStacAPIURL returns the STAC catalog root from the STAC_API_URL
// environment variable, or the USGS Landsat catalog if unset
func GetStacAPIURL() string {
	stacURL, ok := os.LookupEnv(STAC_API_URL)
	if !ok {
		LogInfo(&BasicLogContext{}, "Did not get STAC API URL from the environment. Using default catalog: "+defaultStacAPIURL)
		return defaultStacAPIURL
	}
	return stacURL
}

// GetOutputBucket returns a string for the FC_BUCKET environment variable
func GetOutputBucket() string {
	bucket, ok := os.LookupEnv(FC_BUCKET)
	if !ok {
		LogAlert(&BasicLogContext{}, "Did not get output bucket from the environment. Using default bucket: "+defaultBucket)
		return defaultBucket
	}
	return bucket
}

// GetOutputVersion returns the artifact version string from the FC_VERSION
// environment variable, or the current default if unset
func GetOutputVersion() string {
	version, ok := os.LookupEnv(FC_VERSION)
	if !ok {
		return defaultVersion
	}
	return version
}

// GetAWSRegion returns a string for the AWS_REGION environment variable
func GetAWSRegion() string {
	region, ok := os.LookupEnv(AWS_REGION)
	if !ok {
		LogAlert(&BasicLogContext{}, "Did not get AWS region from the environment. S3 storage will not be available.")
	}
	return region
}

// GetStacAuthKey returns a string for the STAC_AUTH_KEY environment
// variable; an empty string means the catalog is queried anonymously
func GetStacAuthKey() string {
	return os.Getenv(STAC_AUTH_KEY)
}

// GetLocalStorageDir returns a string for the FC_LOCAL_DIR environment
// variable; when set, artifacts are written to that directory instead of S3
func GetLocalStorageDir() string {
	return os.Getenv(FC_LOCAL_DIR)
}
