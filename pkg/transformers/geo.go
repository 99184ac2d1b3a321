package transformers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"

	"github.com/kailas-cloud/featureflow/internal/domain/feature"
)

// GeoPoint is a latitude/longitude pair in degrees.
type GeoPoint struct {
	Lat, Lon float64
}

// toGeomPoint converts a GeoPoint into the geom.Point cell() tests against
// the fitted envelope's geom.Bounds, and that downstream code consuming
// geometries (e.g. a spatial index or a WKT export) can share.
func toGeomPoint(p GeoPoint) (*geom.Point, error) {
	pt := geom.NewPoint(geom.XY)
	if _, err := pt.SetCoords(geom.Coord{p.Lon, p.Lat}); err != nil {
		return nil, fmt.Errorf("transformers: geo: invalid coordinate: %w", err)
	}
	return pt, nil
}

// geoBounds accumulates the observed lat/lon envelope across a dataset.
type geoBounds struct {
	minLat, maxLat, minLon, maxLon float64
	seen                           bool
}

// GeoGridSummary is the fitted bounding box a GeoGridBucketizer partitions
// into a gridSize x gridSize grid.
type GeoGridSummary struct {
	MinLat, MaxLat, MinLon, MaxLon float64
}

// GeoGridBucketizer one-hot encodes a point into the grid cell of its
// dataset's bounding box that contains it. gridSize controls the number of
// rows and columns; the emitted block has gridSize*gridSize slots.
type GeoGridBucketizer struct {
	name     string
	gridSize int
}

// NewGeoGridBucketizer returns a GeoGridBucketizer named name with the given
// number of rows and columns per axis.
func NewGeoGridBucketizer(name string, gridSize int) *GeoGridBucketizer {
	return &GeoGridBucketizer{name: name, gridSize: gridSize}
}

var _ feature.Transformer[GeoPoint, geoBounds, GeoGridSummary] = (*GeoGridBucketizer)(nil)

func (t *GeoGridBucketizer) Name() string { return t.name }

func (t *GeoGridBucketizer) Aggregator() feature.Aggregator[GeoPoint, geoBounds, GeoGridSummary] {
	return feature.Aggregator[GeoPoint, geoBounds, GeoGridSummary]{
		Prepare: func(p GeoPoint) geoBounds {
			return geoBounds{minLat: p.Lat, maxLat: p.Lat, minLon: p.Lon, maxLon: p.Lon, seen: true}
		},
		Combine: func(l, r geoBounds) geoBounds {
			if !l.seen {
				return r
			}
			if !r.seen {
				return l
			}
			return geoBounds{
				minLat: min(l.minLat, r.minLat), maxLat: max(l.maxLat, r.maxLat),
				minLon: min(l.minLon, r.minLon), maxLon: max(l.maxLon, r.maxLon),
				seen: true,
			}
		},
		Present: func(b geoBounds) (GeoGridSummary, error) {
			return GeoGridSummary{MinLat: b.minLat, MaxLat: b.maxLat, MinLon: b.minLon, MaxLon: b.maxLon}, nil
		},
	}
}

func (t *GeoGridBucketizer) FeatureDimension(GeoGridSummary) int { return t.gridSize * t.gridSize }

func (t *GeoGridBucketizer) FeatureNames(GeoGridSummary) []string {
	names := make([]string, 0, t.gridSize*t.gridSize)
	for row := 0; row < t.gridSize; row++ {
		for col := 0; col < t.gridSize; col++ {
			names = append(names, fmt.Sprintf("%s_r%dc%d", t.name, row, col))
		}
	}
	return names
}

// cell locates p's row/column in c's grid. The envelope and the
// containment test are both real go-geom values: bounds is assembled by
// extending an empty Bounds with the envelope's two corners, and
// containment goes through Bounds.OverlapsPoint rather than four
// hand-rolled comparisons.
func (t *GeoGridBucketizer) cell(p GeoPoint, c GeoGridSummary) (row, col int, inBounds bool) {
	bounds := geom.NewBounds(geom.XY).
		Extend(geom.NewPointFlat(geom.XY, []float64{c.MinLon, c.MinLat})).
		Extend(geom.NewPointFlat(geom.XY, []float64{c.MaxLon, c.MaxLat}))

	lonSpan := bounds.Max(0) - bounds.Min(0)
	latSpan := bounds.Max(1) - bounds.Min(1)
	if latSpan == 0 || lonSpan == 0 {
		return 0, 0, false
	}

	pt, err := toGeomPoint(p)
	if err != nil || !bounds.OverlapsPoint(geom.XY, pt.FlatCoords()) {
		return 0, 0, false
	}

	row = int((p.Lat - bounds.Min(1)) / latSpan * float64(t.gridSize))
	col = int((p.Lon - bounds.Min(0)) / lonSpan * float64(t.gridSize))
	if row >= t.gridSize {
		row = t.gridSize - 1
	}
	if col >= t.gridSize {
		col = t.gridSize - 1
	}
	return row, col, true
}

func (t *GeoGridBucketizer) BuildFeatures(a feature.Option[GeoPoint], c GeoGridSummary, sink feature.Sink) {
	width := t.gridSize * t.gridSize
	p, ok := a.Get()
	if !ok {
		sink.SkipN(width)
		return
	}
	targetRow, targetCol, inBounds := t.cell(p, c)
	for row := 0; row < t.gridSize; row++ {
		for col := 0; col < t.gridSize; col++ {
			name := fmt.Sprintf("%s_r%dc%d", t.name, row, col)
			if inBounds && row == targetRow && col == targetCol {
				sink.Add(name, 1)
			} else {
				sink.Add(name, 0)
			}
		}
	}
}

func (t *GeoGridBucketizer) EncodeAggregator(c GeoGridSummary) (string, error) {
	return fmt.Sprintf("%g,%g,%g,%g", c.MinLat, c.MaxLat, c.MinLon, c.MaxLon), nil
}

func (t *GeoGridBucketizer) DecodeAggregator(s string) (GeoGridSummary, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return GeoGridSummary{}, fmt.Errorf("transformers: geogrid: malformed aggregator %q", s)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return GeoGridSummary{}, fmt.Errorf("transformers: geogrid: %w", err)
		}
		vals[i] = v
	}
	return GeoGridSummary{MinLat: vals[0], MaxLat: vals[1], MinLon: vals[2], MaxLon: vals[3]}, nil
}

func (t *GeoGridBucketizer) Params() map[string]string {
	return map[string]string{"kind": "geogrid", "grid_size": strconv.Itoa(t.gridSize)}
}
