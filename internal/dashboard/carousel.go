package dashboard

import (
	"fmt"

	"github.com/i474232898/weather-globe/internal/events"
	"github.com/i474232898/weather-globe/internal/weather"
)

// Slide is one carousel entry. Temperature stays empty until the city has
// been fetched successfully.
type Slide struct {
	ID          string `json:"id"`
	City        string `json:"city"`
	Temperature string `json:"temperature"`
}

// Carousel is a looping list of city slides.
type Carousel struct {
	slides []Slide
	index  map[string]int
	active int
	bus    *events.Bus
}

func NewCarousel(locs []weather.Location, bus *events.Bus) *Carousel {
	c := &Carousel{index: make(map[string]int, len(locs)), bus: bus}
	for _, loc := range locs {
		if _, dup := c.index[loc.Key()]; dup {
			continue
		}
		c.index[loc.Key()] = len(c.slides)
		c.slides = append(c.slides, Slide{ID: loc.Key(), City: loc.City})
	}
	return c
}

func (c *Carousel) Len() int { return len(c.slides) }

// Active returns the current slide; ok is false for an empty carousel.
func (c *Carousel) Active() (Slide, bool) {
	if len(c.slides) == 0 {
		return Slide{}, false
	}
	return c.slides[c.active], true
}

func (c *Carousel) Slides() []Slide {
	out := make([]Slide, len(c.slides))
	copy(out, c.slides)
	return out
}

// Next moves one slide forward, wrapping from the last slide to the first.
func (c *Carousel) Next() (Slide, error) { return c.step(1) }

// Prev moves one slide back, wrapping from the first slide to the last.
func (c *Carousel) Prev() (Slide, error) { return c.step(-1) }

func (c *Carousel) step(delta int) (Slide, error) {
	n := len(c.slides)
	if n == 0 {
		return Slide{}, fmt.Errorf("carousel has no slides")
	}
	return c.GoTo(((c.active+delta)%n + n) % n)
}

// GoTo activates slide i and publishes a slide-changed event.
func (c *Carousel) GoTo(i int) (Slide, error) {
	if i < 0 || i >= len(c.slides) {
		return Slide{}, fmt.Errorf("slide %d out of range [0,%d)", i, len(c.slides))
	}
	c.active = i
	s := c.slides[i]
	if c.bus != nil {
		c.bus.PublishSlideChange(events.SlideChange{CityID: s.ID, Index: i})
	}
	return s, nil
}

// GoToCity activates the slide for a city id.
func (c *Carousel) GoToCity(id string) (Slide, error) {
	i, ok := c.index[id]
	if !ok {
		return Slide{}, fmt.Errorf("%w: %s", ErrNoSlide, id)
	}
	return c.GoTo(i)
}

// SetTemperature updates a slide's text. It reports false for unknown ids.
func (c *Carousel) SetTemperature(id, text string) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}
	c.slides[i].Temperature = text
	return true
}
