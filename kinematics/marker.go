package kinematics

import "github.com/golang/geo/r3"

// Marker is a named point fixed in a body's frame, used for handles and attachment points.
type Marker struct {
	name     string
	localPos r3.Vector
	node     *BodyNode
}

// NewMarker returns a marker at localPos in the frame of the body it will be added to.
func NewMarker(name string, localPos r3.Vector) *Marker {
	return &Marker{name: name, localPos: localPos}
}

// Name returns the name of the marker.
func (m *Marker) Name() string {
	return m.name
}

// LocalPosition returns the position of the marker in its body's frame.
func (m *Marker) LocalPosition() r3.Vector {
	return m.localPos
}

// Node returns the body the marker is attached to, nil before AddMarker.
func (m *Marker) Node() *BodyNode {
	return m.node
}

// WorldPosition returns the position of the marker in the world frame.
func (m *Marker) WorldPosition() r3.Vector {
	if m.node == nil {
		return m.localPos
	}
	return m.node.WorldPosition(m.localPos)
}
