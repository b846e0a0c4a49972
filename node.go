package rgraph

// RunFunc is a caller-supplied recording closure, invoked once per
// compilation against the outer recording surface.
type RunFunc func(cmds *RenderCommands)

// NodeMeta is a node's ordering and identity metadata: name, explicit
// before/after edges, and its run function. Grounded on
// original_source/src/node.rs's RenderNodeMeta.
type NodeMeta struct {
	Name     string
	Before   map[string]struct{}
	After    map[string]struct{}
	RunFn    RunFunc
	TypeName string
}

// RenderNode is anything that can contribute a NodeMeta to a graph. Plain
// function-backed nodes use FunctionNode; callers may implement this
// directly for stateful node types.
type RenderNode interface {
	Meta() NodeMeta
}

// FunctionNode is a chainable builder for a function-backed node,
// grounded on original_source/src/node.rs's FunctionNode builder.
type FunctionNode struct {
	meta NodeMeta
}

// NewFunctionNode returns a FunctionNode named name that will invoke fn
// when the graph recording pass reaches it.
func NewFunctionNode(name string, fn RunFunc) *FunctionNode {
	return &FunctionNode{meta: NodeMeta{
		Name:   name,
		Before: make(map[string]struct{}),
		After:  make(map[string]struct{}),
		RunFn:  fn,
	}}
}

// Before declares that this node must execute strictly before the named
// node, returning the receiver for chaining.
func (f *FunctionNode) Before(name string) *FunctionNode {
	f.meta.Before[name] = struct{}{}
	return f
}

// After declares that this node must execute strictly after the named
// node, returning the receiver for chaining.
func (f *FunctionNode) After(name string) *FunctionNode {
	f.meta.After[name] = struct{}{}
	return f
}

// Meta implements RenderNode.
func (f *FunctionNode) Meta() NodeMeta { return f.meta }
