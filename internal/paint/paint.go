// Package paint implements the Painter contract of spec.md §4.J: a pure
// consumer of a Layout that must be idempotent when painted repeatedly onto
// the same mount with equal layouts.
//
// Grounded on utils/debug/treewriter.go's indented-tree dump idiom
// (DebugPainter) and convert/kfx/debug_dump.go's structured debug
// serialization idiom (IonDumpPainter, using ion-go instead of the Ion
// binary fragment dump that file performs for KFX containers).
package paint

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/amazon-ion/ion-go/ion"

	"superdoc/internal/paginate"
)

// Painter is the spec.md §4.J contract: consume a Layout and paint it onto a
// mount. Implementations must be idempotent when called repeatedly on the
// same mount with equal layouts.
type Painter interface {
	Paint(layout paginate.Layout, mount io.Writer) error
}

// treeWriter is the same indented-line builder as utils/debug/treewriter.go,
// adapted here to emit to an io.Writer directly instead of buffering into a
// strings.Builder first (DebugPainter streams one page at a time).
type treeWriter struct {
	w io.Writer
}

func (tw treeWriter) line(depth int, format string, args ...any) {
	io.WriteString(tw.w, strings.Repeat("  ", depth))
	fmt.Fprintf(tw.w, format, args...)
	io.WriteString(tw.w, "\n")
}

// DebugPainter renders a Layout as an indented, human-readable tree: one
// block per page, listing fragments in paint order. It never mutates the
// mount across calls beyond writing the same bytes for the same layout, so
// repeated Paint calls with an equal Layout are idempotent in the sense the
// contract requires (same bytes out).
type DebugPainter struct{}

func (DebugPainter) Paint(layout paginate.Layout, mount io.Writer) error {
	tw := treeWriter{w: mount}
	tw.line(0, "layout %dx%d, %d page(s)", int(layout.PageSize.W), int(layout.PageSize.H), len(layout.Pages))
	for _, page := range layout.Pages {
		tw.line(1, "page %d (%d fragments)", page.Number, len(page.Fragments))
		for _, f := range page.Fragments {
			describeFragment(tw, 2, f)
		}
	}
	return nil
}

func describeFragment(tw treeWriter, depth int, f paginate.Fragment) {
	switch f.Kind {
	case paginate.FragmentPara:
		tw.line(depth, "para %s lines[%d..%d] at (%s,%s) w=%s continues=%t",
			f.BlockID, f.FromLine, f.ToLine, trimNum(f.X), trimNum(f.Y), trimNum(f.Width), f.ContinuesFromPrev)
	case paginate.FragmentImage:
		tw.line(depth, "image %s at (%s,%s) %sx%s", f.BlockID, trimNum(f.X), trimNum(f.Y), trimNum(f.Width), trimNum(f.Height))
	case paginate.FragmentDrawing:
		tw.line(depth, "drawing %s (%s) at (%s,%s) %sx%s z=%d anchored=%t",
			f.BlockID, f.DrawingKind, trimNum(f.X), trimNum(f.Y), trimNum(f.Width), trimNum(f.Height), f.ZIndex, f.IsAnchored)
	case paginate.FragmentTable:
		tw.line(depth, "table %s rows[%d..%d] at (%s,%s)", f.BlockID, f.FromRow, f.ToRow, trimNum(f.X), trimNum(f.Y))
	default:
		tw.line(depth, "fragment %s (%s)", f.BlockID, f.Kind)
	}
}

func trimNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// IonDumpPainter serializes the Layout to Ion text and writes it to the
// mount, for golden-file comparison in tests (spec.md §8 invariant 9:
// "layout purity — the paginator produces byte-equal Layout objects on
// repeat invocation" is exercised downstream by diffing two dumps).
type IonDumpPainter struct{}

func (IonDumpPainter) Paint(layout paginate.Layout, mount io.Writer) error {
	data, err := ion.MarshalText(toIonLayout(layout))
	if err != nil {
		return fmt.Errorf("marshal layout to ion: %w", err)
	}
	_, err = mount.Write(data)
	return err
}

// ionLayout/ionPage/ionFragment are plain structs (rather than marshaling
// paginate.Layout directly) so the Ion field names are written explicitly
// instead of relying on Go struct field names, the same separation the
// teacher keeps between its domain model and ionutil's wire structs.
type ionLayout struct {
	PageW float64    `ion:"pageWidth"`
	PageH float64    `ion:"pageHeight"`
	Pages []ionPage  `ion:"pages"`
}

type ionPage struct {
	Number    int           `ion:"number"`
	Fragments []ionFragment `ion:"fragments"`
}

type ionFragment struct {
	Kind    string  `ion:"kind"`
	BlockID string  `ion:"blockId"`
	X       float64 `ion:"x"`
	Y       float64 `ion:"y"`
	Width   float64 `ion:"width"`
	Height  float64 `ion:"height"`
}

func toIonLayout(l paginate.Layout) ionLayout {
	out := ionLayout{PageW: l.PageSize.W, PageH: l.PageSize.H}
	for _, p := range l.Pages {
		ip := ionPage{Number: p.Number}
		for _, f := range p.Fragments {
			ip.Fragments = append(ip.Fragments, ionFragment{
				Kind:    string(f.Kind),
				BlockID: f.BlockID,
				X:       f.X,
				Y:       f.Y,
				Width:   f.Width,
				Height:  f.Height,
			})
		}
		out.Pages = append(out.Pages, ip)
	}
	return out
}
