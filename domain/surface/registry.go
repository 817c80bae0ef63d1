package surface

import "log/slog"

// Registry owns the tracked surfaces and their scene nodes.
// It is not safe for concurrent use; callers serialize on the UI thread.
type Registry struct {
	scene  SceneGraph
	logger *slog.Logger
	byID   map[ID]*TrackedSurface
	byNode map[NodeHandle]*TrackedSurface
	order  []ID
}

// NewRegistry returns an empty registry mirroring into scene. With a nil
// scene surfaces are tracked without nodes and ByNode finds nothing.
func NewRegistry(scene SceneGraph, logger *slog.Logger) *Registry {
	return &Registry{
		scene:  scene,
		logger: logger,
		byID:   make(map[ID]*TrackedSurface),
		byNode: make(map[NodeHandle]*TrackedSurface),
	}
}

// nodePose is the flattened pose of the plane node under its anchor.
func nodePose(anchor Pose) Pose { return anchor.Compose(flatten) }

// OnSurfaceDetected creates a plane node for a new detection. A detection
// for an id that is already tracked is applied as an update.
func (r *Registry) OnSurfaceDetected(id ID, extent Extent, pose Pose) {
	if r == nil {
		return
	}
	if _, ok := r.byID[id]; ok {
		r.OnSurfaceUpdated(id, extent, pose)
		return
	}
	s := &TrackedSurface{ID: id, Extent: extent, Pose: pose}
	if r.scene != nil {
		s.Node = r.scene.CreatePlaneNode(extent, nodePose(pose))
	}
	r.byID[id] = s
	if s.Node != NoNode {
		r.byNode[s.Node] = s
	}
	r.order = append(r.order, id)
	if r.logger != nil {
		r.logger.Debug("surface detected", "surface", string(id), "width", extent.Width, "height", extent.Height)
	}
}

// OnSurfaceUpdated resizes and moves the node for id. Unknown ids are ignored.
func (r *Registry) OnSurfaceUpdated(id ID, extent Extent, pose Pose) {
	if r == nil {
		return
	}
	s, ok := r.byID[id]
	if !ok {
		if r.logger != nil {
			r.logger.Debug("update for untracked surface ignored", "surface", string(id))
		}
		return
	}
	s.Extent = extent
	s.Pose = pose
	if r.scene != nil {
		r.scene.UpdateNode(s.Node, extent, nodePose(pose))
	}
}

// ClearAll removes every node from the scene and forgets all surfaces.
func (r *Registry) ClearAll() {
	if r == nil {
		return
	}
	for _, id := range r.order {
		s := r.byID[id]
		if s != nil && r.scene != nil {
			r.scene.RemoveNode(s.Node)
		}
	}
	n := len(r.order)
	r.byID = make(map[ID]*TrackedSurface)
	r.byNode = make(map[NodeHandle]*TrackedSurface)
	r.order = nil
	if r.logger != nil && n > 0 {
		r.logger.Debug("surfaces cleared", "count", n)
	}
}

// Lookup returns the surface tracked under id.
func (r *Registry) Lookup(id ID) (*TrackedSurface, bool) {
	if r == nil {
		return nil, false
	}
	s, ok := r.byID[id]
	return s, ok
}

// ByNode returns the surface that owns node h.
func (r *Registry) ByNode(h NodeHandle) (*TrackedSurface, bool) {
	if r == nil {
		return nil, false
	}
	s, ok := r.byNode[h]
	return s, ok
}

// Len returns the number of tracked surfaces.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Surfaces returns copies of the tracked surfaces in detection order.
func (r *Registry) Surfaces() []TrackedSurface {
	if r == nil {
		return nil
	}
	out := make([]TrackedSurface, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.byID[id])
	}
	return out
}
