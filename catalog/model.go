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

package catalog

import (
	"time"

	"github.com/digitalearthpacific/dep-fc/tiles"
	"github.com/digitalearthpacific/dep-fc/util"
)

// LandsatCollection is the collection holding Collection-2 Level-2
// surface reflectance scenes
const LandsatCollection = "landsat-c2l2-sr"

// Context is the context for a catalog search operation
type Context struct {
	BaseStacURL string
	AuthKey     string
	sessionID   string
}

// AppName returns the application name
func (c *Context) AppName() string {
	return "dep-fc"
}

// SessionID returns a Session ID, creating one if needed
func (c *Context) SessionID() string {
	if c.sessionID == "" {
		c.sessionID, _ = util.PsuUUID()
	}
	return c.sessionID
}

// LogRootDir returns an empty string
func (c *Context) LogRootDir() string {
	return ""
}

// NewContext creates a search context from the environment
func NewContext() *Context {
	return &Context{
		BaseStacURL: util.GetStacAPIURL(),
		AuthKey:     util.GetStacAuthKey(),
	}
}

// SearchOptions are the options for a scene search
type SearchOptions struct {
	Collections   []string
	Tile          tiles.Tile
	DateFrom      time.Time
	DateTo        time.Time
	MaxCloudCover float64 // percent; <= 0 disables the filter
}

// Scene is one catalog record for a satellite acquisition over a tile.
// Scene records are read-only and externally owned.
type Scene struct {
	ID           string
	AcquiredDate time.Time
	CloudCover   float64
	Geometry     interface{}
	AssetHrefs   map[string]string
}

// AssetHref returns the location of the named asset, if the scene has one
func (s Scene) AssetHref(name string) (string, bool) {
	href, ok := s.AssetHrefs[name]
	return href, ok
}

// STAC API search request. The item-search spec names these members; the
// query block is the (deprecated but USGS-supported) query extension.
type searchRequest struct {
	Collections []string               `json:"collections"`
	Datetime    string                 `json:"datetime,omitempty"`
	Query       map[string]queryClause `json:"query,omitempty"`
	Limit       int                    `json:"limit,omitempty"`
}

type queryClause struct {
	EQ  interface{} `json:"eq,omitempty"`
	LTE interface{} `json:"lte,omitempty"`
}

type searchResponse struct {
	Features []stacItem `json:"features"`
	Links    []stacLink `json:"links"`
}

type stacItem struct {
	ID         string               `json:"id"`
	Geometry   interface{}          `json:"geometry"`
	Properties stacItemProperties   `json:"properties"`
	Assets     map[string]stacAsset `json:"assets"`
}

type stacItemProperties struct {
	Datetime   string  `json:"datetime"`
	CloudCover float64 `json:"eo:cloud_cover"`
}

type stacAsset struct {
	Href      string   `json:"href"`
	Alternate struct { // alternate extension; USGS serves s3 hrefs here
		S3 struct {
			Href string `json:"href"`
		} `json:"s3"`
	} `json:"alternate"`
}

type stacLink struct {
	Rel    string                 `json:"rel"`
	Href   string                 `json:"href"`
	Method string                 `json:"method"`
	Body   map[string]interface{} `json:"body"`
}
