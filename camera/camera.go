// Package camera provides a 2D pan and zoom camera over a bounded world.
package camera

// Camera maps between world and screen coordinates. The view never leaves
// the world rectangle.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	ViewportW, ViewportH float32
	WorldW, WorldH       float32

	MinZoom, MaxZoom float32
}

// New creates a camera centered on the world. The minimum zoom shows the
// whole world in the viewport.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
		MaxZoom:   8.0,
	}
	c.MinZoom = minZoom(viewportW, viewportH, worldW, worldH)
	c.Reset()
	return c
}

// minZoom is the largest zoom at which the whole world still fits.
func minZoom(viewportW, viewportH, worldW, worldH float32) float32 {
	z := viewportW / worldW
	if zy := viewportH / worldH; zy < z {
		z = zy
	}
	return z
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = minZoom(viewportW, viewportH, c.WorldW, c.WorldH)
	c.SetZoom(c.Zoom)
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
	c.clampCenter()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampCenter()
}

// ZoomAt multiplies the zoom by factor while keeping the world point under
// the screen position (sx, sy) fixed.
func (c *Camera) ZoomAt(sx, sy, factor float32) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.Zoom = clamp(c.Zoom*factor, c.MinZoom, c.MaxZoom)
	c.X = wx - (sx-c.ViewportW/2)/c.Zoom
	c.Y = wy - (sy-c.ViewportH/2)/c.Zoom
	c.clampCenter()
}

// Reset shows the whole world.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = 1.0
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	c.clampCenter()
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

// clampCenter keeps the visible area inside the world. An axis narrower
// than the viewport is centered instead.
func (c *Camera) clampCenter() {
	c.X = clampAxis(c.X, c.ViewportW/(2*c.Zoom), c.WorldW)
	c.Y = clampAxis(c.Y, c.ViewportH/(2*c.Zoom), c.WorldH)
}

func clampAxis(center, half, size float32) float32 {
	if 2*half >= size {
		return size / 2
	}
	return clamp(center, half, size-half)
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
