package main

// minSelection is the smallest committable free-crop dimension: 1% of the
// image on each axis. Anything smaller is treated as an accidental click.
const minSelection = 0.01

// zoomEps separates "zoom 1" from "zoomed in" when deciding what a pointer
// drag means.
const zoomEps = 1e-6

// Point is a pointer position normalized to the viewport: {0,0} is the top
// left corner, {1,1} the bottom right.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) clamped() Point {
	return Point{X: clamp(p.X, 0, 1), Y: clamp(p.Y, 0, 1)}
}

type gestureKind int

const (
	gestureIdle gestureKind = iota
	gestureSelecting
	gesturePanning
)

// gesture tracks an in-flight pointer drag. The kind makes selecting and
// panning mutually exclusive: a drag is one or the other from pointer-down.
type gesture struct {
	kind     gestureKind
	start    Point
	current  Point
	startPan Pan
}

// PointerDown begins a drag. At zoom 1 with a free preset it starts a crop
// selection; when zoomed in it starts a pan instead, regardless of preset.
func (s *Session) PointerDown(p Point) {
	p = p.clamped()
	switch {
	case s.state.Zoom > minZoom+zoomEps:
		s.gesture = gesture{kind: gesturePanning, start: p, current: p, startPan: s.state.Pan}
	case s.preset.IsFree():
		s.gesture = gesture{kind: gestureSelecting, start: p, current: p}
	}
}

// PointerMove updates the active drag. Selection tracks the rubber-band
// rectangle; panning shifts the pan offset by the drag distance scaled to
// the slack available at the current zoom.
func (s *Session) PointerMove(p Point) {
	p = p.clamped()
	switch s.gesture.kind {
	case gestureSelecting:
		s.gesture.current = p
	case gesturePanning:
		s.gesture.current = p
		denom := s.state.Zoom - 1
		if denom <= 0 {
			return
		}
		// Content follows the pointer: dragging right reveals what lies to
		// the left, so the pan offset moves against the drag.
		s.state.Pan = Pan{
			X: s.gesture.startPan.X - (p.X-s.gesture.start.X)/denom,
			Y: s.gesture.startPan.Y - (p.Y-s.gesture.start.Y)/denom,
		}.Clamp()
	}
}

// PointerUp ends the drag. A selection commits as the new free-crop box only
// when both dimensions exceed the minimum threshold; committing resets zoom
// and pan. A pan drag just settles at its current offset.
func (s *Session) PointerUp() {
	g := s.gesture
	s.gesture = gesture{}

	if g.kind != gestureSelecting {
		if g.kind == gesturePanning {
			s.pushTransform()
		}
		return
	}

	box := rectBetween(g.start, g.current)
	if box.W <= minSelection || box.H <= minSelection {
		return
	}
	committed := box.Normalize()
	s.freeBox = &committed
	s.state.Zoom = minZoom
	s.state.Pan = Pan{}
	s.pushTransform()
}

// SelectionBox returns the live rubber-band rectangle while a selection drag
// is in progress.
func (s *Session) SelectionBox() (Box, bool) {
	if s.gesture.kind != gestureSelecting {
		return Box{}, false
	}
	return rectBetween(s.gesture.start, s.gesture.current), true
}

// Dragging reports whether any pointer gesture is in flight.
func (s *Session) Dragging() bool {
	return s.gesture.kind != gestureIdle
}

// rectBetween builds the min/max rectangle spanned by two points.
func rectBetween(a, b Point) Box {
	x0, x1 := a.X, b.X
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	y0, y1 := a.Y, b.Y
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return Box{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}
