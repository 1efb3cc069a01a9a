package config

// AnchoredTableFullWidthRatio is the OOXML-derived threshold (spec.md §4.G):
// an anchored table whose width is at least this fraction of the column
// width is demoted to inline layout instead of floating.
const AnchoredTableFullWidthRatio = 0.9

// PageConfig describes the page geometry the paginator lays content into,
// following cfg.go's yaml-tagged-struct-with-validate-tags convention.
type PageConfig struct {
	WidthPx      float64 `yaml:"width_px" validate:"min=100"`
	HeightPx     float64 `yaml:"height_px" validate:"min=100"`
	MarginTopPx  float64 `yaml:"margin_top_px" validate:"gte=0"`
	MarginLeftPx float64 `yaml:"margin_left_px" validate:"gte=0"`
	Columns      int     `yaml:"columns" validate:"min=1"`
}

// ContentWidthPx is the usable width inside the margins, divided evenly
// across Columns.
func (p PageConfig) ContentWidthPx() float64 {
	cols := p.Columns
	if cols < 1 {
		cols = 1
	}
	return (p.WidthPx - 2*p.MarginLeftPx) / float64(cols)
}

// UsableHeightPx is the usable height inside the top/bottom margins
// (margins are symmetric: MarginTopPx is reused for the bottom).
func (p PageConfig) UsableHeightPx() float64 {
	return p.HeightPx - 2*p.MarginTopPx
}
