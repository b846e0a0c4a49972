package rgraph

import "testing"

func TestRenderGraphCompileOrdersByDependency(t *testing.T) {
	var order []string
	g := NewRenderGraph()
	g.AddNode(NewFunctionNode("b", func(cmds *RenderCommands) {
		order = append(order, "b")
	}).After("a"))
	g.AddNode(NewFunctionNode("a", func(cmds *RenderCommands) {
		order = append(order, "a")
	}))

	if _, err := g.Compile(NewVirtualResources(), NewPipelineStorage(), NewBindGroupCache()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("expected [a b], got %v", order)
	}
}

func TestRenderGraphCompileDetectsCycle(t *testing.T) {
	g := NewRenderGraph()
	g.AddNode(NewFunctionNode("a", nil).After("b"))
	g.AddNode(NewFunctionNode("b", nil).After("a"))

	_, err := g.Compile(NewVirtualResources(), NewPipelineStorage(), NewBindGroupCache())
	if err == nil {
		t.Fatalf("expected a cycle error")
	}
	if _, ok := err.(*CycleDetectedError); !ok {
		t.Fatalf("expected *CycleDetectedError, got %T (%v)", err, err)
	}
}

func TestRenderGraphCompileMissingNodeReference(t *testing.T) {
	g := NewRenderGraph()
	g.AddNode(NewFunctionNode("a", nil).After("nonexistent"))

	_, err := g.Compile(NewVirtualResources(), NewPipelineStorage(), NewBindGroupCache())
	if _, ok := err.(*MissingNodeError); !ok {
		t.Fatalf("expected *MissingNodeError, got %T (%v)", err, err)
	}
}

func TestRenderGraphCompileDetectsWriteOrderAmbiguity(t *testing.T) {
	g := NewRenderGraph()
	g.AddNode(NewFunctionNode("writerA", func(cmds *RenderCommands) {
		cmds.WriteBuffer(cmds.Buffer("shared"), 0, []byte{1, 2, 3, 4})
	}))
	g.AddNode(NewFunctionNode("writerB", func(cmds *RenderCommands) {
		cmds.WriteBuffer(cmds.Buffer("shared"), 0, []byte{5, 6, 7, 8})
	}))

	_, err := g.Compile(NewVirtualResources(), NewPipelineStorage(), NewBindGroupCache())
	ambErr, ok := err.(*WriteOrderAmbiguityError)
	if !ok {
		t.Fatalf("expected *WriteOrderAmbiguityError, got %T (%v)", err, err)
	}
	if len(ambErr.Pairs) != 1 {
		t.Fatalf("expected exactly one conflicting pair, got %d", len(ambErr.Pairs))
	}
}

func TestRenderGraphCompileOrderedWritesDoNotConflict(t *testing.T) {
	g := NewRenderGraph()
	g.AddNode(NewFunctionNode("writerA", func(cmds *RenderCommands) {
		cmds.WriteBuffer(cmds.Buffer("shared"), 0, []byte{1, 2, 3, 4})
	}))
	g.AddNode(NewFunctionNode("writerB", func(cmds *RenderCommands) {
		cmds.WriteBuffer(cmds.Buffer("shared"), 0, []byte{5, 6, 7, 8})
	}).After("writerA"))

	if _, err := g.Compile(NewVirtualResources(), NewPipelineStorage(), NewBindGroupCache()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRenderGraphAddNodeDuplicateNamePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for a duplicate node name")
		}
	}()
	g := NewRenderGraph()
	g.AddNode(NewFunctionNode("a", nil))
	g.AddNode(NewFunctionNode("a", nil))
}
