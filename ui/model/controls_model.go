package model

// ControlsModel holds presentation state of the control panel that is not
// owned by the surface session. The zero value is usable.
// No synchronization needed: updates occur on the UI thread.
type ControlsModel struct {
	imageRef       string
	imageReady     bool
	opacityVisible bool
	status         string
}

// SetImage records the reference of a successfully loaded image.
func (m *ControlsModel) SetImage(ref string) {
	if m == nil {
		return
	}
	m.imageRef = ref
	m.imageReady = true
}

// ClearImage forgets the chosen image.
func (m *ControlsModel) ClearImage() {
	if m == nil {
		return
	}
	m.imageRef = ""
	m.imageReady = false
}

// ImageReady reports whether an image has been chosen.
func (m *ControlsModel) ImageReady() bool { return m != nil && m.imageReady }

// ImageRef returns the reference of the chosen image.
func (m *ControlsModel) ImageRef() string {
	if m == nil {
		return ""
	}
	return m.imageRef
}

// SetOpacityVisible shows or hides the opacity controls. It reports whether
// the value changed.
func (m *ControlsModel) SetOpacityVisible(v bool) bool {
	if m == nil || m.opacityVisible == v {
		return false
	}
	m.opacityVisible = v
	return true
}

// OpacityVisible reports whether the opacity controls are shown.
func (m *ControlsModel) OpacityVisible() bool { return m != nil && m.opacityVisible }

// SetStatus stores the status line.
func (m *ControlsModel) SetStatus(s string) {
	if m != nil {
		m.status = s
	}
}

// Status returns the status line.
func (m *ControlsModel) Status() string {
	if m == nil {
		return ""
	}
	return m.status
}
