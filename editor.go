package main

// Zoom bounds for an editing session. Zoom 1 shows the whole base crop box.
const (
	minZoom = 1.0
	maxZoom = 4.0
)

// EditorState holds the transform part of an editing session: rotation in
// whole degrees kept within [-180,180], zoom in [1,4] and a pan offset.
type EditorState struct {
	Rotation int     `json:"rotation"`
	Zoom     float64 `json:"zoom"`
	Pan      Pan     `json:"pan"`
}

// DefaultEditorState returns the state a fresh session starts from.
func DefaultEditorState() EditorState {
	return EditorState{Rotation: 0, Zoom: 1, Pan: Pan{}}
}

// wrapDegrees folds an arbitrary rotation into (-180,180].
func wrapDegrees(deg int) int {
	deg %= 360
	if deg > 180 {
		deg -= 360
	}
	if deg < -180 {
		deg += 360
	}
	return deg
}

// Session is the state of one image-editing session. It owns the crop
// preset, the drawn free-crop box, the transform state, the adjustment
// sliders and their undo histories. A session is single-threaded: it is
// driven only by UI event callbacks and never shared across editors.
type Session struct {
	ImageWidth  int
	ImageHeight int

	preset  CropPreset
	freeBox *Box
	state   EditorState
	adjust  Adjustments

	transformHist *History[EditorState]
	adjustHist    *History[Adjustments]

	gesture gesture
}

// NewSession starts an editing session for an image of the given pixel size.
func NewSession(width, height int) *Session {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	return &Session{
		ImageWidth:    width,
		ImageHeight:   height,
		preset:        FreePreset(),
		state:         DefaultEditorState(),
		transformHist: NewHistory(historyCap, DefaultEditorState()),
		adjustHist:    NewHistory(historyCap, Adjustments{}),
	}
}

// ImageRatio returns the source image's width/height aspect.
func (s *Session) ImageRatio() float64 {
	return float64(s.ImageWidth) / float64(s.ImageHeight)
}

// State returns the current transform state.
func (s *Session) State() EditorState {
	return s.state
}

// Preset returns the active crop preset.
func (s *Session) Preset() CropPreset {
	return s.preset
}

// FreeBox returns the committed free-crop box, or nil when none is drawn.
func (s *Session) FreeBox() *Box {
	if s.freeBox == nil {
		return nil
	}
	b := *s.freeBox
	return &b
}

// SetPreset switches the crop preset. Changing away from free keeps the
// drawn box around so switching back restores it.
func (s *Session) SetPreset(p CropPreset) {
	s.preset = p
}

// SetZoom clamps and applies a new zoom level.
func (s *Session) SetZoom(zoom float64) {
	s.state.Zoom = clamp(zoom, minZoom, maxZoom)
	s.pushTransform()
}

// SetPan clamps and applies a new pan offset.
func (s *Session) SetPan(p Pan) {
	s.state.Pan = p.Clamp()
	s.pushTransform()
}

// RotateBy adds deg to the current rotation, wrapping into (-180,180].
func (s *Session) RotateBy(deg int) {
	s.state.Rotation = wrapDegrees(s.state.Rotation + deg)
	s.pushTransform()
}

// SetAdjustments replaces the adjustment sliders.
func (s *Session) SetAdjustments(a Adjustments) {
	s.adjust = a
	s.adjustHist.Push(a)
}

// Adjustments returns the current slider values.
func (s *Session) Adjustments() Adjustments {
	return s.adjust
}

// UndoTransform steps the transform state back one history entry.
func (s *Session) UndoTransform() bool {
	prev, ok := s.transformHist.Undo()
	if ok {
		s.state = prev
	}
	return ok
}

// UndoAdjustments steps the sliders back one history entry.
func (s *Session) UndoAdjustments() bool {
	prev, ok := s.adjustHist.Undo()
	if ok {
		s.adjust = prev
	}
	return ok
}

// Restore resets the session to its initial state: default transform,
// neutral sliders, free preset, no drawn box. Histories restart from the
// defaults.
func (s *Session) Restore() {
	s.preset = FreePreset()
	s.freeBox = nil
	s.state = DefaultEditorState()
	s.adjust = Adjustments{}
	s.transformHist = NewHistory(historyCap, DefaultEditorState())
	s.adjustHist = NewHistory(historyCap, Adjustments{})
	s.gesture = gesture{}
}

// BaseBox returns the crop box before zoom and pan.
func (s *Session) BaseBox() Box {
	return s.preset.BaseBox(s.ImageRatio(), s.freeBox)
}

// EffectiveBox returns the sub-rectangle of the image currently visible in
// the viewport.
func (s *Session) EffectiveBox() Box {
	return EffectiveBox(s.BaseBox(), s.state.Zoom, s.state.Pan)
}

// ActiveRatio resolves the aspect ratio the viewport should be sized to.
func (s *Session) ActiveRatio() float64 {
	ratio, ok := s.preset.Ratio(s.ImageRatio(), s.freeBox)
	if !ok {
		return s.ImageRatio()
	}
	return ratio
}

// Surface maps the effective box onto a target render size in pixels.
func (s *Session) Surface(targetW, targetH float64) SurfaceStyle {
	return MapSurface(s.EffectiveBox(), targetW, targetH)
}

// Export builds the final payload describing every edit in this session.
func (s *Session) Export() ExportPayload {
	p := ExportPayload{
		Crop:        s.preset,
		Rotation:    s.state.Rotation,
		Zoom:        s.state.Zoom,
		Pan:         s.state.Pan,
		Adjustments: s.adjust,
	}
	if p.Crop.Name == "" {
		p.Crop.Name = PresetFree
	}
	if s.preset.IsFree() && s.freeBox != nil {
		b := s.freeBox.Normalize()
		p.CropBox = &b
	}
	return p
}

func (s *Session) pushTransform() {
	s.transformHist.Push(s.state)
}
