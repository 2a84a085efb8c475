// Package referenceframe defines the narrow interfaces through which the collision engine
// consumes an articulated robot's structure and kinematic state.
package referenceframe

import (
	"go.viam.com/collision/spatialmath"
)

// Model describes the collision-relevant structure of an articulated robot: its named links,
// the collision geometries rigidly associated with each link (posed in the link's frame), and
// named groups of links that queries may be scoped to. How the model is parsed or where its
// joint limits live is not this package's concern.
type Model interface {
	// Name returns the name of the model.
	Name() string

	// LinkNames returns the names of all links, in a fixed order.
	LinkNames() []string

	// LinkGeometries returns the collision geometries of the named link, posed in the link frame.
	LinkGeometries(link string) ([]spatialmath.Geometry, error)

	// GroupNames returns the names of all defined groups.
	GroupNames() []string

	// Group returns the link names belonging to the named group.
	Group(group string) ([]string, error)
}

// SimpleModel is a Model backed by explicit link and group registrations.
type SimpleModel struct {
	name       string
	linkNames  []string
	geometries map[string][]spatialmath.Geometry
	groups     map[string][]string
}

// NewSimpleModel constructs an empty model with the given name.
func NewSimpleModel(name string) *SimpleModel {
	return &SimpleModel{
		name:       name,
		geometries: make(map[string][]spatialmath.Geometry),
		groups:     make(map[string][]string),
	}
}

// Name returns the name of the model.
func (m *SimpleModel) Name() string {
	return m.name
}

// AddLink registers a named link with its collision geometries, posed in the link frame.
// A link may have no geometry, in which case it never participates in collision checks.
func (m *SimpleModel) AddLink(name string, geometries ...spatialmath.Geometry) error {
	if _, ok := m.geometries[name]; ok {
		return NewDuplicateLinkError(name)
	}
	m.linkNames = append(m.linkNames, name)
	m.geometries[name] = geometries
	return nil
}

// SetGroup defines or redefines a named group of links.
func (m *SimpleModel) SetGroup(name string, links []string) error {
	for _, link := range links {
		if _, ok := m.geometries[link]; !ok {
			return NewUnknownLinkError(link)
		}
	}
	m.groups[name] = links
	return nil
}

// LinkNames returns the names of all links in registration order.
func (m *SimpleModel) LinkNames() []string {
	names := make([]string, len(m.linkNames))
	copy(names, m.linkNames)
	return names
}

// LinkGeometries returns the collision geometries of the named link.
func (m *SimpleModel) LinkGeometries(link string) ([]spatialmath.Geometry, error) {
	geometries, ok := m.geometries[link]
	if !ok {
		return nil, NewUnknownLinkError(link)
	}
	return geometries, nil
}

// GroupNames returns the names of all defined groups.
func (m *SimpleModel) GroupNames() []string {
	names := make([]string, 0, len(m.groups))
	for name := range m.groups {
		names = append(names, name)
	}
	return names
}

// Group returns the link names belonging to the named group.
func (m *SimpleModel) Group(group string) ([]string, error) {
	links, ok := m.groups[group]
	if !ok {
		return nil, NewUnknownGroupError(group)
	}
	return links, nil
}
