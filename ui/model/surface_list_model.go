package model

// SurfaceListModel holds the surface ids offered in the tap-at-surface
// picker. Zero value is an empty list and is usable.
type SurfaceListModel struct {
	ids []string
}

func NewSurfaceListModel() *SurfaceListModel { return &SurfaceListModel{} }

// Set replaces the list and reports whether it differs from the previous one.
func (m *SurfaceListModel) Set(ids []string) bool {
	if m == nil {
		return false
	}
	if len(ids) == len(m.ids) {
		same := true
		for i := range ids {
			if ids[i] != m.ids[i] {
				same = false
				break
			}
		}
		if same {
			return false
		}
	}
	m.ids = append(m.ids[:0:0], ids...)
	return true
}

// IDs returns a copy of the list.
func (m *SurfaceListModel) IDs() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.ids...)
}

// At returns the id at index i.
func (m *SurfaceListModel) At(i int) (string, bool) {
	if m == nil || i < 0 || i >= len(m.ids) {
		return "", false
	}
	return m.ids[i], true
}
