package globe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/i474232898/weather-globe/internal/geo"
)

func TestLabelCanvasFitsText(t *testing.T) {
	opts := DefaultLabelOptions()
	for _, text := range []string{"Rome", "Paris 16°C", "Rio de Janeiro 28°C"} {
		l := NewLabel(text, geo.Vec3{Y: 1}, opts)

		textWidth := font.MeasureString(basicfont.Face7x13, text).Ceil()
		assert.Equal(t, (textWidth+2*opts.Padding)*opts.PixelScale, l.CanvasWidth, text)
		assert.Equal(t, (basicfont.Face7x13.Metrics().Height.Ceil()+2*opts.Padding)*opts.PixelScale, l.CanvasHeight, text)

		// World scale keeps the canvas aspect ratio.
		assert.InDelta(t, float64(l.CanvasWidth)/float64(l.CanvasHeight), l.Scale.X/l.Scale.Y, 1e-9, text)
		assert.Equal(t, opts.WorldHeight, l.Scale.Y)
	}
}

func TestLabelWidthGrowsWithText(t *testing.T) {
	short := NewLabel("Oslo", geo.Vec3{Y: 1}, LabelOptions{})
	long := NewLabel("Oslo, Norway 3°C", geo.Vec3{Y: 1}, LabelOptions{})

	assert.Greater(t, long.CanvasWidth, short.CanvasWidth)
	assert.Equal(t, long.CanvasHeight, short.CanvasHeight)
}

func TestLabelOffsetAlongNormal(t *testing.T) {
	opts := DefaultLabelOptions()
	pin := geo.LatLonToVector3(-33.87, 151.21, 1)

	l := NewLabel("Sydney", pin, opts)
	assert.InDelta(t, opts.Offset, l.Offset.Length(), 1e-12)
	assert.InDelta(t, 1, l.Offset.Normalize().Dot(pin), 1e-12)

	// Near the south pole the label still points away from the surface.
	polar := NewLabel("McMurdo", geo.LatLonToVector3(-90, 0, 1), opts)
	assert.InDelta(t, -opts.Offset, polar.Offset.Y, 1e-12)
}

func TestLabelOffsetVertical(t *testing.T) {
	opts := DefaultLabelOptions()
	opts.Policy = OffsetVertical

	north := NewLabel("Paris", geo.LatLonToVector3(48.85, 2.35, 1), opts)
	south := NewLabel("Sydney", geo.LatLonToVector3(-33.87, 151.21, 1), opts)

	assert.Equal(t, geo.Vec3{Y: opts.Offset}, north.Offset)
	assert.Equal(t, geo.Vec3{Y: -opts.Offset}, south.Offset)
}

func TestLabelHeightFollowsCameraDistance(t *testing.T) {
	near := NewLabel("Oslo 4°C", geo.Vec3{Y: 1}, LabelOptionsFor(3))
	far := NewLabel("Oslo 4°C", geo.Vec3{Y: 1}, LabelOptionsFor(9))

	assert.InDelta(t, 3*near.Scale.Y, far.Scale.Y, 1e-12)
	assert.InDelta(t, 3*near.Scale.X, far.Scale.X, 1e-12)
	assert.Equal(t, near.CanvasWidth, far.CanvasWidth)
	assert.Equal(t, DefaultLabelOptions(), LabelOptionsFor(0))
}
