package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/model"
)

// PostGISName provider name
const PostGISName = "postgis"

// Querier is satisfied by *database.DB and pgx pools
type Querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// PostGIS reads POIs from a local OSM import, for offline use.
//
// Expected table layout (osm2pgsql style):
//
//	osm_poi(osm_id bigint, name text, amenity text, geom geometry(Point, 4326))
type PostGIS struct {
	db    Querier
	table string
}

// NewPostGIS creates the provider over the given table
func NewPostGIS(db Querier, table string) *PostGIS {
	return &PostGIS{db: db, table: table}
}

// Name provider name
func (p *PostGIS) Name() string { return PostGISName }

// FetchPOIs returns the POIs within radius meters of the center.
// An empty result for a center outside the imported extent fails as no_coverage.
func (p *PostGIS) FetchPOIs(ctx context.Context, area model.SearchArea) ([]model.POIRecord, error) {
	if err := area.Center.Validate(); err != nil {
		return nil, Fail(PostGISName, KindInvalidRequest, err)
	}

	rows, err := p.db.Query(ctx, p.query(), area.Center.Lng, area.Center.Lat, area.Radius)
	if err != nil {
		return nil, Fail(PostGISName, KindUnavailable, fmt.Errorf("query pois: %w", err))
	}
	defer rows.Close()

	var pois []model.POIRecord
	for rows.Next() {
		var (
			id       int64
			poi      model.POIRecord
			category string
		)
		if err := rows.Scan(&id, &poi.Name, &category, &poi.Lng, &poi.Lat); err != nil {
			return nil, Fail(PostGISName, KindMalformedResponse, fmt.Errorf("scan poi: %w", err))
		}
		poi.ID = fmt.Sprintf("node/%d", id)
		poi.Category = category
		poi.Source = PostGISName
		pois = append(pois, poi)
	}
	if err := rows.Err(); err != nil {
		return nil, Fail(PostGISName, KindUnavailable, fmt.Errorf("iterate pois: %w", err))
	}

	if pois == nil {
		covered, err := p.covers(ctx, area.Center)
		if err != nil {
			log.Warn().Err(err).Str("table", p.table).Msg("postgis coverage check failed")
		} else if !covered {
			return nil, Fail(PostGISName, KindNoCoverage,
				fmt.Errorf("%.6f,%.6f is outside the extent of %s", area.Center.Lat, area.Center.Lng, p.table))
		}
		pois = []model.POIRecord{}
	}
	return pois, nil
}

// covers reports whether the center lies within the extent of the imported data
func (p *PostGIS) covers(ctx context.Context, center model.Location) (bool, error) {
	rows, err := p.db.Query(ctx, `
		SELECT COALESCE(
			ST_Intersects(ST_Extent(geom)::geometry, ST_SetSRID(ST_MakePoint($1, $2), 4326)),
			false
		)
		FROM `+p.tableIdent(), center.Lng, center.Lat)
	if err != nil {
		return false, fmt.Errorf("query extent: %w", err)
	}
	defer rows.Close()

	var covered bool
	if rows.Next() {
		if err := rows.Scan(&covered); err != nil {
			return false, fmt.Errorf("scan extent: %w", err)
		}
	}
	return covered, rows.Err()
}

func (p *PostGIS) tableIdent() string {
	return pgx.Identifier(strings.Split(p.table, ".")).Sanitize()
}

func (p *PostGIS) query() string {
	return `
		SELECT
			osm_id,
			COALESCE(name, '') AS name,
			COALESCE(amenity, '') AS amenity,
			ST_X(geom) AS lng,
			ST_Y(geom) AS lat
		FROM ` + p.tableIdent() + `
		WHERE ST_DWithin(
			geom::geography,
			ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography,
			$3
		)
		ORDER BY osm_id
	`
}
