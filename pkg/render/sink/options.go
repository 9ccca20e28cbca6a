package sink

// Option configures the image sinks.
type Option func(*config)

type config struct {
	width, height float64
	scale         float64 // PNG pixel density
	ticks         int     // approximate tick count per axis, 0 disables
	legend        bool
	fontSize      float64
}

func newConfig(opts ...Option) config {
	c := config{width: 1000, height: 800, scale: 1, ticks: 6, legend: true, fontSize: 10}
	for _, opt := range opts {
		opt(&c)
	}
	if c.scale <= 0 {
		c.scale = 1
	}
	return c
}

// WithSize sets the canvas size in pixels (default 1000×800).
func WithSize(w, h float64) Option {
	return func(c *config) {
		if w > 0 {
			c.width = w
		}
		if h > 0 {
			c.height = h
		}
	}
}

// WithScale sets the PNG scale factor (default 1).
func WithScale(s float64) Option { return func(c *config) { c.scale = s } }

// WithTicks sets the approximate number of ticks per axis; 0 hides the axes.
func WithTicks(n int) Option { return func(c *config) { c.ticks = n } }

// WithoutLegend hides the legend.
func WithoutLegend() Option { return func(c *config) { c.legend = false } }

// WithFontSize sets the label font size in pixels (default 10).
func WithFontSize(px float64) Option { return func(c *config) { c.fontSize = px } }
