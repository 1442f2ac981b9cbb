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

// Package catalog queries a STAC API for Landsat scenes matching a WRS-2
// tile and a date range.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/digitalearthpacific/dep-fc/model"
	"github.com/digitalearthpacific/dep-fc/tiles"
	"github.com/digitalearthpacific/dep-fc/util"
)

// ErrEmptyCollection indicates a search that matched no scenes
var ErrEmptyCollection = errors.New("no scenes found for search")

const searchPageLimit = 250

// Search pagination is bounded to keep a bad next-link loop from running away
const maxSearchPages = 40

// SearchScenes returns all catalog scenes matching the options, in
// ascending acquisition date order
func SearchScenes(context *Context, options SearchOptions) ([]Scene, error) {
	req := searchRequest{
		Collections: options.Collections,
		Limit:       searchPageLimit,
		Query: map[string]queryClause{
			"landsat:wrs_path": {EQ: options.Tile.PathString()},
			"landsat:wrs_row":  {EQ: options.Tile.RowString()},
		},
	}
	if len(req.Collections) == 0 {
		req.Collections = []string{LandsatCollection}
	}
	if !options.DateFrom.IsZero() || !options.DateTo.IsZero() {
		req.Datetime = fmt.Sprintf("%s/%s", rangeBound(options.DateFrom), rangeBound(options.DateTo))
	}
	if options.MaxCloudCover > 0 {
		req.Query["eo:cloud_cover"] = queryClause{LTE: options.MaxCloudCover}
	}

	searchURL := strings.TrimSuffix(context.BaseStacURL, "/") + "/search"
	util.LogAudit(context, util.LogAuditInput{
		Actor: "anon user", Action: "POST", Actee: searchURL,
		Message: fmt.Sprintf("Searching scenes for tile %v", options.Tile), Severity: util.INFO,
	})

	scenes := []Scene{}
	var body interface{} = req
	for page := 0; searchURL != ""; page++ {
		if page >= maxSearchPages {
			return nil, fmt.Errorf("Catalog pagination exceeded %d pages for tile %v", maxSearchPages, options.Tile)
		}

		var response searchResponse
		if _, err := util.ReqByObjJSON("POST", searchURL, context.AuthKey, body, &response); err != nil {
			return nil, util.LogSimpleErr(context, fmt.Sprintf("Failed to search catalog at %s: ", searchURL), err)
		}

		for _, item := range response.Features {
			scene, err := sceneFromItem(item)
			if err != nil {
				util.LogAlert(context, fmt.Sprintf("Skipping unparseable catalog item %s: %v", item.ID, err))
				continue
			}
			scenes = append(scenes, scene)
		}

		searchURL, body = nextPage(response.Links, req)
	}

	if len(scenes) == 0 {
		return nil, ErrEmptyCollection
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].AcquiredDate.Before(scenes[j].AcquiredDate)
	})
	return scenes, nil
}

// SearchYear returns all scenes for a tile within one calendar year
func SearchYear(context *Context, tile tiles.Tile, year int) ([]Scene, error) {
	return SearchScenes(context, SearchOptions{
		Tile:     tile,
		DateFrom: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC),
	})
}

// SearchSince returns all scenes for a tile acquired strictly after the
// cutoff. The catalog range query is inclusive, so the boundary scene is
// filtered out here.
func SearchSince(context *Context, tile tiles.Tile, cutoff time.Time) ([]Scene, error) {
	scenes, err := SearchScenes(context, SearchOptions{
		Tile:     tile,
		DateFrom: cutoff,
		DateTo:   time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	recent := scenes[:0]
	for _, scene := range scenes {
		if scene.AcquiredDate.After(cutoff) {
			recent = append(recent, scene)
		}
	}
	if len(recent) == 0 {
		return nil, ErrEmptyCollection
	}
	return recent, nil
}

// rangeBound formats one end of a STAC datetime interval; a zero time is
// the open bound ".."
func rangeBound(t time.Time) string {
	if t.IsZero() {
		return ".."
	}
	return t.UTC().Format(model.StandardTimeLayout)
}

func sceneFromItem(item stacItem) (Scene, error) {
	acquired, err := model.ParseStacTime(item.Properties.Datetime)
	if err != nil {
		return Scene{}, err
	}

	hrefs := make(map[string]string, len(item.Assets))
	for name, asset := range item.Assets {
		href := asset.Href
		// Prefer the s3 alternate href; reads go through requester-pays
		// buckets rather than the public frontend
		if asset.Alternate.S3.Href != "" {
			href = asset.Alternate.S3.Href
		}
		hrefs[name] = href
	}

	return Scene{
		ID:           item.ID,
		AcquiredDate: acquired,
		CloudCover:   item.Properties.CloudCover,
		Geometry:     item.Geometry,
		AssetHrefs:   hrefs,
	}, nil
}

func nextPage(links []stacLink, original searchRequest) (string, interface{}) {
	for _, link := range links {
		if link.Rel != "next" {
			continue
		}
		if len(link.Body) > 0 {
			return link.Href, link.Body
		}
		return link.Href, original
	}
	return "", nil
}
