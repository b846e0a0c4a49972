package rgraph

import "sort"

// RenderGraph collects named nodes and their explicit before/after
// ordering constraints, and compiles them into a replayable Compilation.
// Grounded on original_source/src/graph.rs's RenderGraph.
type RenderGraph struct {
	nodes []RenderNode
	index map[string]int
}

// NewRenderGraph returns an empty RenderGraph.
func NewRenderGraph() *RenderGraph {
	return &RenderGraph{index: make(map[string]int)}
}

// AddNode registers a node. Panics if a node with the same name was
// already added — a construction-time programmer error.
func (g *RenderGraph) AddNode(n RenderNode) {
	name := n.Meta().Name
	if _, exists := g.index[name]; exists {
		panic("rgraph: node \"" + name + "\" already added to graph")
	}
	g.index[name] = len(g.nodes)
	g.nodes = append(g.nodes, n)
}

// Compile runs the five compilation phases from spec §4.3 against the
// given shared resource/pipeline/bind-group state and returns a replayable
// Compilation, or the first error encountered.
func (g *RenderGraph) Compile(resources *VirtualResources, pipelines *PipelineStorage, bindCache *BindGroupCache) (*Compilation, error) {
	// Phase A: dependency collation. preds[i] is the set of node indices
	// that must run before node i, derived from both directions of the
	// explicit Before/After edges.
	preds := make([][]int, len(g.nodes))
	for i, n := range g.nodes {
		meta := n.Meta()
		for after := range meta.After {
			j, ok := g.index[after]
			if !ok {
				return nil, &MissingNodeError{Name: after}
			}
			preds[i] = append(preds[i], j)
		}
		for before := range meta.Before {
			j, ok := g.index[before]
			if !ok {
				return nil, &MissingNodeError{Name: before}
			}
			preds[j] = append(preds[j], i)
		}
	}

	// Phase B: DFS topological sort with cycle detection.
	order, err := g.topoSort(preds)
	if err != nil {
		return nil, err
	}

	// Phase C: recording pass. Each node's run function is invoked, in
	// topological order, against one shared RenderCommands surface.
	cmds := newRenderCommands(resources, pipelines, bindCache, len(g.nodes))
	for _, idx := range order {
		cmds.setCurrentNode(idx)
		meta := g.nodes[idx].Meta()
		if meta.RunFn != nil {
			meta.RunFn(cmds)
		}
	}

	// Phase D: write-order ambiguity detection. Two nodes whose access
	// sets conflict must be connected by a dependency path; otherwise
	// their relative order is an ambiguity the graph does not pin down.
	ancestors := computeAncestors(preds, order)
	var pairs []ConflictPair
	for i := 0; i < len(g.nodes); i++ {
		for j := i + 1; j < len(g.nodes); j++ {
			if ancestors[i].Contains(j) || ancestors[j].Contains(i) {
				continue
			}
			if !cmds.access[i].Conflicts(cmds.access[j]) {
				continue
			}
			pairs = append(pairs, ConflictPair{A: g.nodes[i].Meta().Name, B: g.nodes[j].Meta().Name})
		}
	}
	if len(pairs) > 0 {
		return nil, &WriteOrderAmbiguityError{Pairs: pairs}
	}

	// Phase E: constraint verification. Any texture or sampler whose
	// accumulated sample-type/binding-type constraint settled into a
	// Conflicted state is reported now, rather than deferred to
	// materialization.
	for idx := 0; idx < resources.Len(); idx++ {
		h := resources.HandleAt(idx)
		if h.Kind != ResourceKindTexture {
			continue
		}
		constr := resources.TextureConstraints(h.Texture)
		if constr.SampleType.State == SampleTypeConflicted {
			return nil, &ConflictingSampleTypesError{
				Name: resources.NameAt(idx),
				A:    constr.SampleType.A,
				B:    constr.SampleType.B,
			}
		}
	}
	for name, sc := range cmds.samplers {
		if sc.Type.State == SamplerTypeConflicted {
			return nil, &SamplerConstraintsUnfulfilledError{Name: name, Want: *sc}
		}
	}

	return &Compilation{
		resources: resources,
		pipelines: pipelines,
		bindCache: bindCache,
		queue:     cmds.queue,
		samplers:  cmds.samplers,
	}, nil
}

// topoSort performs a recursive DFS-based topological sort over node
// indices using the collated predecessor lists, returning a cycle error
// naming the two nodes the search closed a loop between.
func (g *RenderGraph) topoSort(preds [][]int) ([]int, error) {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make([]int, len(g.nodes))
	order := make([]int, 0, len(g.nodes))

	var visit func(i, from int) error
	visit = func(i, from int) error {
		switch state[i] {
		case done:
			return nil
		case visiting:
			return &CycleDetectedError{A: g.nodes[from].Meta().Name, B: g.nodes[i].Meta().Name}
		}
		state[i] = visiting
		for _, p := range preds[i] {
			if err := visit(p, i); err != nil {
				return err
			}
		}
		state[i] = done
		order = append(order, i)
		return nil
	}

	// Deterministic iteration order for reproducible diagnostics.
	indices := make([]int, len(g.nodes))
	for i := range indices {
		indices[i] = i
	}
	sort.Slice(indices, func(a, b int) bool {
		return g.nodes[indices[a]].Meta().Name < g.nodes[indices[b]].Meta().Name
	})

	for _, i := range indices {
		if state[i] == unvisited {
			if err := visit(i, i); err != nil {
				return nil, err
			}
		}
	}
	return order, nil
}

// computeAncestors returns, for each node index, the bitset of every node
// that must execute before it transitively, computed in a single
// topological pass: a node's ancestors are the union of each direct
// predecessor's own ancestors plus the predecessor itself.
func computeAncestors(preds [][]int, order []int) []Bitset {
	n := len(preds)
	ancestors := make([]Bitset, n)
	for i := range ancestors {
		ancestors[i] = NewBitset(n)
	}
	for _, i := range order {
		for _, p := range preds[i] {
			ancestors[i].Insert(p)
			ancestors[i].UnionWith(ancestors[p])
		}
	}
	return ancestors
}
