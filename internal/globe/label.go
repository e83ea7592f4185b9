package globe

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/i474232898/weather-globe/internal/geo"
)

// OffsetPolicy decides which way a label is pushed away from its pin.
type OffsetPolicy string

const (
	// OffsetNormal moves the label outward along the pin's surface normal.
	// It keeps labels clear of the sphere everywhere, poles included.
	OffsetNormal OffsetPolicy = "normal"
	// OffsetVertical moves the label straight up, or straight down for pins
	// in the southern half of the globe's local frame.
	OffsetVertical OffsetPolicy = "vertical"
)

// LabelOptions controls how label sprites are sized and placed.
type LabelOptions struct {
	Face        font.Face
	PixelScale  int     // canvas pixels per font pixel
	Padding     int     // font pixels around the text on every side
	WorldHeight float64 // sprite height in scene units
	Offset      float64 // distance between pin and label in scene units
	Policy      OffsetPolicy
}

const (
	defaultCameraDistance = 3
	defaultWorldHeight    = 0.12
)

// DefaultLabelOptions returns options legible from a camera three units
// away.
func DefaultLabelOptions() LabelOptions {
	return LabelOptionsFor(defaultCameraDistance)
}

// LabelOptionsFor scales the sprite height with the camera distance so a
// label covers the same share of the screen wherever the camera sits.
func LabelOptionsFor(cameraDistance float64) LabelOptions {
	if cameraDistance <= 0 {
		cameraDistance = defaultCameraDistance
	}
	return LabelOptions{
		Face:        basicfont.Face7x13,
		PixelScale:  4,
		Padding:     2,
		WorldHeight: defaultWorldHeight * cameraDistance / defaultCameraDistance,
		Offset:      0.08,
		Policy:      OffsetNormal,
	}
}

// Label is a camera-facing text sprite attached to a pin. Offset is relative
// to the pin, in the globe's local frame.
type Label struct {
	Text         string   `json:"text"`
	CanvasWidth  int      `json:"canvasWidth"`
	CanvasHeight int      `json:"canvasHeight"`
	Scale        geo.Vec3 `json:"scale"`
	Offset       geo.Vec3 `json:"offset"`
}

// NewLabel sizes a sprite canvas to the measured text and places it next to
// the pin at pinLocal.
func NewLabel(text string, pinLocal geo.Vec3, opts LabelOptions) Label {
	opts = opts.withDefaults()

	width := font.MeasureString(opts.Face, text).Ceil() + 2*opts.Padding
	height := opts.Face.Metrics().Height.Ceil() + 2*opts.Padding

	l := Label{
		Text:         text,
		CanvasWidth:  width * opts.PixelScale,
		CanvasHeight: height * opts.PixelScale,
	}

	aspect := float64(width) / float64(height)
	l.Scale = geo.Vec3{X: opts.WorldHeight * aspect, Y: opts.WorldHeight, Z: 1}
	l.Offset = labelOffset(pinLocal, opts)

	return l
}

func labelOffset(pin geo.Vec3, opts LabelOptions) geo.Vec3 {
	if opts.Policy == OffsetVertical {
		if pin.Y < 0 {
			return geo.Vec3{Y: -opts.Offset}
		}
		return geo.Vec3{Y: opts.Offset}
	}

	n := pin.Normalize()
	if n == (geo.Vec3{}) {
		n = geo.WorldUp
	}
	return n.Scale(opts.Offset)
}

func (o LabelOptions) withDefaults() LabelOptions {
	def := DefaultLabelOptions()
	if o.Face == nil {
		o.Face = def.Face
	}
	if o.PixelScale <= 0 {
		o.PixelScale = def.PixelScale
	}
	if o.Padding < 0 {
		o.Padding = 0
	}
	if o.WorldHeight <= 0 {
		o.WorldHeight = def.WorldHeight
	}
	if o.Policy == "" {
		o.Policy = def.Policy
	}
	return o
}
