package rgraph

// virtualResourceEntry is the (name, handle, index-in-access-list) triple
// from spec §3 "Virtual resource", recorded the first time any node
// references a name.
type virtualResourceEntry struct {
	Name   string
	Handle ResourceHandle
}

// VirtualResources is the append-only name→handle table owned by a
// recording surface for the duration of one compilation. It never stores
// back-pointers (spec §9): resources are addressed purely by integer index
// into this list.
type VirtualResources struct {
	entries       []virtualResourceEntry
	byName        map[string]int // name -> index into entries
	nextBuffer    BufferHandle
	nextTexture   TextureHandle
	bufferIndex   map[BufferHandle]int
	textureIndex  map[TextureHandle]int
	bufferConstr  map[BufferHandle]*BufferConstraints
	textureConstr map[TextureHandle]*TextureConstraints
}

// NewVirtualResources returns an empty VirtualResources table.
func NewVirtualResources() *VirtualResources {
	return &VirtualResources{
		byName:        make(map[string]int),
		bufferIndex:   make(map[BufferHandle]int),
		textureIndex:  make(map[TextureHandle]int),
		bufferConstr:  make(map[BufferHandle]*BufferConstraints),
		textureConstr: make(map[TextureHandle]*TextureConstraints),
	}
}

// Len returns the number of distinct virtual resources recorded so far —
// the index space that access-set bitsets (spec Invariant #3) must be sized
// to.
func (v *VirtualResources) Len() int {
	return len(v.entries)
}

// Buffer returns the stable virtual handle for name, allocating one (and
// its constraint record) on first reference.
func (v *VirtualResources) Buffer(name string) (BufferHandle, int) {
	if idx, ok := v.byName[name]; ok {
		return v.entries[idx].Handle.Buffer, idx
	}
	handle := v.nextBuffer
	v.nextBuffer++
	idx := len(v.entries)
	v.entries = append(v.entries, virtualResourceEntry{Name: name, Handle: bufferResource(handle)})
	v.byName[name] = idx
	v.bufferIndex[handle] = idx
	v.bufferConstr[handle] = &BufferConstraints{}
	return handle, idx
}

// Texture returns the stable virtual handle for name, allocating one on
// first reference.
func (v *VirtualResources) Texture(name string) (TextureHandle, int) {
	if idx, ok := v.byName[name]; ok {
		return v.entries[idx].Handle.Texture, idx
	}
	handle := v.nextTexture
	v.nextTexture++
	idx := len(v.entries)
	v.entries = append(v.entries, virtualResourceEntry{Name: name, Handle: textureResource(handle)})
	v.byName[name] = idx
	v.textureIndex[handle] = idx
	v.textureConstr[handle] = &TextureConstraints{}
	return handle, idx
}

// IndexOf returns the access-set bit index for an already-allocated handle.
func (v *VirtualResources) IndexOf(h ResourceHandle) int {
	switch h.Kind {
	case ResourceKindBuffer:
		return v.bufferIndex[h.Buffer]
	default:
		return v.textureIndex[h.Texture]
	}
}

// NameAt returns the name recorded at a given access-set index.
func (v *VirtualResources) NameAt(index int) string {
	return v.entries[index].Name
}

// HandleAt returns the resource handle recorded at a given access-set
// index.
func (v *VirtualResources) HandleAt(index int) ResourceHandle {
	return v.entries[index].Handle
}

// BufferConstraints returns the mutable constraint record for a buffer
// handle.
func (v *VirtualResources) BufferConstraints(h BufferHandle) *BufferConstraints {
	return v.bufferConstr[h]
}

// TextureConstraints returns the mutable constraint record for a texture
// handle.
func (v *VirtualResources) TextureConstraints(h TextureHandle) *TextureConstraints {
	return v.textureConstr[h]
}

// Clear resets the table to empty while retaining backing map/slice
// capacity, supporting artifact recycling (spec §4.5).
func (v *VirtualResources) Clear() {
	v.entries = v.entries[:0]
	for k := range v.byName {
		delete(v.byName, k)
	}
	for k := range v.bufferIndex {
		delete(v.bufferIndex, k)
	}
	for k := range v.textureIndex {
		delete(v.textureIndex, k)
	}
	for k := range v.bufferConstr {
		delete(v.bufferConstr, k)
	}
	for k := range v.textureConstr {
		delete(v.textureConstr, k)
	}
	v.nextBuffer = 0
	v.nextTexture = 0
}

// AccessSet is the per-node (reads, writes) bitset pair from spec §3,
// sized to the index space of virtual resources touched during recording.
type AccessSet struct {
	Reads  Bitset
	Writes Bitset
}

// MarkRead records that the current node reads the resource at index.
func (a *AccessSet) MarkRead(index int) { a.Reads.Insert(index) }

// MarkWrite records that the current node writes the resource at index.
func (a *AccessSet) MarkWrite(index int) { a.Writes.Insert(index) }

// Conflicts reports whether a and b, touching overlapping index spaces,
// have at least one read/write or write/write overlap per spec §4.3 Phase D.
func (a AccessSet) Conflicts(b AccessSet) bool {
	if a.Reads.IntersectsWith(b.Writes) {
		return true
	}
	if b.Reads.IntersectsWith(a.Writes) {
		return true
	}
	if a.Writes.IntersectsWith(b.Writes) {
		return true
	}
	return false
}
