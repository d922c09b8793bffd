package quarkgl

import "math"

// Node is anything that can live in the scene graph.
type Node interface {
	Object() *Object3D
}

// Object3D carries the transform and hierarchy shared by every node.
type Object3D struct {
	Name     string
	Type     string
	Position *Vector3
	Rotation *Euler
	Scale    *Vector3
	Visible  bool
	Children []Node
	UserData map[string]any

	// Shadows are not rendered; the flags exist so programs can set them.
	CastShadow    bool
	ReceiveShadow bool

	parent Node
	self   Node
}

func (o *Object3D) init(self Node, kind string) {
	o.Type = kind
	o.Position = &Vector3{}
	o.Rotation = &Euler{}
	o.Scale = &Vector3{X: 1, Y: 1, Z: 1}
	o.Visible = true
	o.UserData = make(map[string]any)
	o.self = self
}

func (o *Object3D) Object() *Object3D { return o }

// Parent returns the node this object is attached to, or nil.
func (o *Object3D) Parent() Node { return o.parent }

func (o *Object3D) node() Node {
	if o.self != nil {
		return o.self
	}
	return o
}

// Add attaches children, detaching each from its previous parent first.
// Adding an object to itself or to one of its descendants is ignored.
func (o *Object3D) Add(children ...Node) Node {
	for _, c := range children {
		if c == nil {
			continue
		}
		co := c.Object()
		if co == nil || co == o || o.hasAncestor(co) {
			continue
		}
		if co.parent != nil {
			co.parent.Object().detach(co)
		}
		co.parent = o.node()
		o.Children = append(o.Children, c)
	}
	return o.node()
}

func (o *Object3D) hasAncestor(a *Object3D) bool {
	for p := o.parent; p != nil; p = p.Object().parent {
		if p.Object() == a {
			return true
		}
	}
	return false
}

func (o *Object3D) Remove(children ...Node) Node {
	for _, c := range children {
		if c == nil {
			continue
		}
		o.detach(c.Object())
	}
	return o.node()
}

func (o *Object3D) RemoveFromParent() Node {
	if o.parent != nil {
		o.parent.Object().detach(o)
	}
	return o.node()
}

func (o *Object3D) detach(co *Object3D) {
	for i, c := range o.Children {
		if c.Object() != co {
			continue
		}
		copy(o.Children[i:], o.Children[i+1:])
		o.Children[len(o.Children)-1] = nil
		o.Children = o.Children[:len(o.Children)-1]
		if co.parent == o.node() {
			co.parent = nil
		}
		return
	}
}

// Clear detaches every child and returns them. Entries a program pushed
// into the list without Add keep whatever parent they already had.
func (o *Object3D) Clear() []Node {
	out := o.Children
	self := o.node()
	for _, c := range out {
		if c == nil {
			continue
		}
		if co := c.Object(); co != nil && co.parent == self {
			co.parent = nil
		}
	}
	o.Children = nil
	return out
}

// Traverse calls fn for this node and every descendant, depth first.
// Programs can edit Children directly, so the walk is iterative and visits
// each node once even when the lists form a cycle.
func (o *Object3D) Traverse(fn func(Node)) {
	if fn == nil {
		return
	}
	seen := make(map[*Object3D]struct{})
	stack := []Node{o.node()}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		no := n.Object()
		if _, ok := seen[no]; ok || no == nil {
			continue
		}
		seen[no] = struct{}{}
		fn(n)
		for i := len(no.Children) - 1; i >= 0; i-- {
			if c := no.Children[i]; c != nil {
				stack = append(stack, c)
			}
		}
	}
}

func (o *Object3D) GetObjectByName(name string) Node {
	var found Node
	o.Traverse(func(n Node) {
		if found == nil && n.Object().Name == name {
			found = n
		}
	})
	return found
}

func (o *Object3D) RotateX(a float64) Node { o.Rotation.X += a; return o.node() }
func (o *Object3D) RotateY(a float64) Node { o.Rotation.Y += a; return o.node() }
func (o *Object3D) RotateZ(a float64) Node { o.Rotation.Z += a; return o.node() }

// LookAt turns the object so its +Z axis faces the point, given as a vector or x, y, z.
func (o *Object3D) LookAt(args ...any) {
	p, ok := vectorArgs(args)
	if !ok {
		return
	}
	dx, dy, dz := p.X-o.Position.X, p.Y-o.Position.Y, p.Z-o.Position.Z
	o.Rotation.Y = math.Atan2(dx, dz)
	o.Rotation.X = -math.Atan2(dy, math.Hypot(dx, dz))
	o.Rotation.Z = 0
}

// LocalMatrix returns the transform relative to the parent.
func (o *Object3D) LocalMatrix() Mat4 {
	return Mat4Compose(o.Position.Vec(), o.Rotation.Vec(), o.Scale.Vec())
}

// WorldMatrix composes local matrices up to the root.
func (o *Object3D) WorldMatrix() Mat4 {
	m := o.LocalMatrix()
	for p := o.parent; p != nil; p = p.Object().parent {
		m = Mat4Mul(p.Object().LocalMatrix(), m)
	}
	return m
}

// Group is a transform-only container. The simulation root is a Group, so
// it also carries the Fog programs assign to it.
type Group struct {
	Object3D
	Fog *Fog
}

func NewGroup() *Group {
	g := &Group{}
	g.init(g, "Group")
	return g
}

// Scene is a root node with an optional background.
type Scene struct {
	Object3D
	Background *ColorRGB
	Fog        *Fog
}

func NewScene() *Scene {
	s := &Scene{}
	s.init(s, "Scene")
	return s
}

// Count returns the number of nodes below n, excluding n itself.
func Count(n Node) int {
	if n == nil {
		return 0
	}
	total := -1
	n.Object().Traverse(func(Node) { total++ })
	return total
}
