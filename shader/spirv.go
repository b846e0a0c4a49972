package shader

import (
	"encoding/binary"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// SPIR-V front end. Unlike wgsl.go, no repo in the retrieval pack
// parses SPIR-V, so this is a direct hand-written decoder of the
// binary word stream against the public SPIR-V specification
// (module header, then a flat instruction stream of
// (opcode, word-count) pairs), scoped to exactly the opcodes needed to
// reconstruct ModuleIR for a compute shader module: type declarations,
// decorations (DescriptorSet, Binding, NonWritable, NonReadable),
// variable declarations in the relevant storage classes, entry points,
// and LocalSize execution modes.

const spirvMagicNumber uint32 = 0x07230203

// SPIR-V opcodes this decoder understands. Values from the public
// SPIR-V specification's opcode table.
const (
	opNop                  = 0
	opName                 = 5
	opMemberName           = 6
	opExtInstImport         = 11
	opEntryPoint           = 15
	opExecutionMode        = 16
	opTypeVoid             = 19
	opTypeBool             = 20
	opTypeInt              = 21
	opTypeFloat            = 22
	opTypeVector           = 23
	opTypeMatrix           = 24
	opTypeImage            = 25
	opTypeSampler          = 26
	opTypeSampledImage     = 27
	opTypeArray            = 28
	opTypeRuntimeArray     = 29
	opTypeStruct           = 30
	opTypePointer          = 32
	opConstant             = 43
	opVariable             = 59
	opDecorate             = 71
	opMemberDecorate       = 72
)

const (
	executionModelGLCompute = 6

	executionModeLocalSize = 17

	decorationBinding        = 33
	decorationDescriptorSet  = 34
	decorationNonWritable    = 24
	decorationNonReadable    = 25

	storageClassUniformConstant = 0
	storageClassUniform         = 2
	storageClassStorageBuffer   = 12

	dimDim1D   = 0
	dimDim2D   = 1
	dimDim3D   = 2
	dimDimCube = 3

	imageDepthSampled = 1

	imageSampledCompatible   = 1
	imageSampledStorageImage = 2
)

type spirvType struct {
	kind      string // "void", "int", "float", "vector", "image", "sampler", "sampledimage", "pointer", "struct", "array"
	component int    // for pointer/vector/array: component/element type id
	width     int    // for int/float
	dim       int
	depth     int
	arrayed   int
	ms        int
	sampled   int
	format    int
	storage   int // storage class, for pointer types
	size      uint64
}

type spirvDecoration struct {
	set        int
	hasSet     bool
	binding    int
	hasBinding bool
	nonWritable bool
	nonReadable bool
}

type spirvVariable struct {
	typeID       int
	storageClass int
	name         string
}

// parseSPIRV decodes a SPIR-V binary module into a ModuleIR. Every
// GLCompute entry point becomes an EntryPoint; entry points of other
// execution models are skipped, matching the compute-only scope of spec §4.1.
func parseSPIRV(words []uint32) (*ModuleIR, error) {
	if len(words) < 5 {
		return nil, fmt.Errorf("spirv module: too short (%d words)", len(words))
	}
	if words[0] != spirvMagicNumber {
		return nil, fmt.Errorf("spirv module: bad magic number %#x", words[0])
	}

	types := make(map[int]spirvType)
	names := make(map[int]string)
	decorations := make(map[int]*spirvDecoration)
	variables := make(map[int]spirvVariable)

	type entryPointInfo struct {
		name         string
		localSize    [3]uint32
		interfaceIDs []int
	}
	var entryPoints []entryPointInfo

	decoFor := func(id int) *spirvDecoration {
		d, ok := decorations[id]
		if !ok {
			d = &spirvDecoration{}
			decorations[id] = d
		}
		return d
	}

	idx := 5
	for idx < len(words) {
		instrWord := words[idx]
		wordCount := int(instrWord >> 16)
		opcode := int(instrWord & 0xffff)
		if wordCount == 0 || idx+wordCount > len(words) {
			return nil, fmt.Errorf("spirv module: malformed instruction at word %d", idx)
		}
		operands := words[idx+1 : idx+wordCount]

		switch opcode {
		case opName:
			if len(operands) >= 2 {
				names[int(operands[0])] = decodeSPIRVString(operands[1:])
			}
		case opEntryPoint:
			if len(operands) >= 3 && operands[0] == executionModelGLCompute {
				nameWords := operands[2:]
				name, consumed := decodeSPIRVStringWithLength(nameWords)
				var ifaces []int
				for _, w := range nameWords[consumed:] {
					ifaces = append(ifaces, int(w))
				}
				entryPoints = append(entryPoints, entryPointInfo{name: name, localSize: [3]uint32{1, 1, 1}, interfaceIDs: ifaces})
			}
		case opExecutionMode:
			if len(operands) >= 2 && operands[1] == executionModeLocalSize && len(operands) >= 5 {
				target := int(operands[0])
				for i := range entryPoints {
					if entryPointTargetsName(entryPoints[i].name, names, target) {
						entryPoints[i].localSize = [3]uint32{operands[2], operands[3], operands[4]}
					}
				}
			}
		case opDecorate:
			if len(operands) >= 2 {
				target := int(operands[0])
				switch operands[1] {
				case decorationDescriptorSet:
					if len(operands) >= 3 {
						d := decoFor(target)
						d.set = int(operands[2])
						d.hasSet = true
					}
				case decorationBinding:
					if len(operands) >= 3 {
						d := decoFor(target)
						d.binding = int(operands[2])
						d.hasBinding = true
					}
				case decorationNonWritable:
					decoFor(target).nonWritable = true
				case decorationNonReadable:
					decoFor(target).nonReadable = true
				}
			}
		case opTypeVoid:
			types[int(operands[0])] = spirvType{kind: "void"}
		case opTypeInt:
			if len(operands) >= 2 {
				types[int(operands[0])] = spirvType{kind: "int", width: int(operands[1])}
			}
		case opTypeFloat:
			if len(operands) >= 2 {
				types[int(operands[0])] = spirvType{kind: "float", width: int(operands[1])}
			}
		case opTypeVector:
			if len(operands) >= 3 {
				types[int(operands[0])] = spirvType{kind: "vector", component: int(operands[1]), width: int(operands[2])}
			}
		case opTypeImage:
			if len(operands) >= 7 {
				types[int(operands[0])] = spirvType{
					kind:      "image",
					component: int(operands[1]),
					dim:       int(operands[2]),
					depth:     int(operands[3]),
					arrayed:   int(operands[4]),
					ms:        int(operands[5]),
					sampled:   int(operands[6]),
					format:    intOrZero(operands, 7),
				}
			}
		case opTypeSampler:
			types[int(operands[0])] = spirvType{kind: "sampler"}
		case opTypeSampledImage:
			if len(operands) >= 2 {
				types[int(operands[0])] = spirvType{kind: "sampledimage", component: int(operands[1])}
			}
		case opTypeStruct:
			types[int(operands[0])] = spirvType{kind: "struct"}
		case opTypeArray, opTypeRuntimeArray:
			if len(operands) >= 2 {
				types[int(operands[0])] = spirvType{kind: "array", component: int(operands[1])}
			} else if len(operands) >= 1 {
				types[int(operands[0])] = spirvType{kind: "array"}
			}
		case opTypePointer:
			if len(operands) >= 3 {
				types[int(operands[0])] = spirvType{kind: "pointer", storage: int(operands[1]), component: int(operands[2])}
			}
		case opVariable:
			if len(operands) >= 3 {
				resultType := int(operands[0])
				resultID := int(operands[1])
				storageClass := int(operands[2])
				variables[resultID] = spirvVariable{typeID: resultType, storageClass: storageClass, name: names[resultID]}
			}
		}

		idx += wordCount
	}

	if len(entryPoints) == 0 {
		return &ModuleIR{}, nil
	}

	ir := &ModuleIR{}
	globalIndexByVar := make(map[int]int)

	for varID, v := range variables {
		if v.storageClass != storageClassUniformConstant &&
			v.storageClass != storageClassUniform &&
			v.storageClass != storageClassStorageBuffer {
			continue
		}
		deco, ok := decorations[varID]
		if !ok || !deco.hasSet || !deco.hasBinding {
			continue
		}

		ptrType, ok := types[v.typeID]
		if !ok || ptrType.kind != "pointer" {
			continue
		}
		pointee := types[ptrType.component]

		g := Global{
			Name:    v.name,
			Group:   uint32(deco.set),
			Binding: uint32(deco.binding),
		}

		switch v.storageClass {
		case storageClassUniform:
			g.Space = AddressSpaceUniform
			g.Buffer = &BufferGlobal{}
		case storageClassStorageBuffer:
			g.Space = AddressSpaceStorage
			g.Buffer = &BufferGlobal{ReadOnly: deco.nonWritable}
		case storageClassUniformConstant:
			switch pointee.kind {
			case "sampler":
				g.Space = AddressSpaceHandleSampler
				g.Sampler = &SamplerGlobal{}
			case "sampledimage":
				imgType := types[pointee.component]
				g.Space = AddressSpaceHandleTexture
				g.Texture = spirvImageToTextureGlobal(imgType, types)
			case "image":
				g.Space = AddressSpaceHandleTexture
				g.Texture = spirvImageToTextureGlobal(pointee, types)
				if g.Texture.Class == ImageClassSampled {
					g.Texture.Class = ImageClassStorage
					g.Texture.StorageAccess = spirvStorageAccess(deco)
				}
			default:
				continue
			}
		}

		ir.Globals = append(ir.Globals, g)
		globalIndexByVar[varID] = len(ir.Globals) - 1
	}

	for _, ep := range entryPoints {
		used := make(map[int]bool)
		for _, ifaceID := range ep.interfaceIDs {
			if gi, ok := globalIndexByVar[ifaceID]; ok {
				used[gi] = true
			}
		}
		ir.EntryPoints = append(ir.EntryPoints, EntryPoint{
			Name:          ep.name,
			IsCompute:     true,
			WorkgroupSize: ep.localSize,
			UsedGlobals:   used,
		})
	}

	return ir, nil
}

func spirvStorageAccess(deco *spirvDecoration) wgpu.StorageTextureAccess {
	switch {
	case deco.nonWritable && deco.nonReadable:
		return wgpu.StorageTextureAccessReadOnly
	case deco.nonWritable:
		return wgpu.StorageTextureAccessReadOnly
	case deco.nonReadable:
		return wgpu.StorageTextureAccessWriteOnly
	default:
		return wgpu.StorageTextureAccessReadWrite
	}
}

func spirvImageToTextureGlobal(imgType spirvType, types map[int]spirvType) *TextureGlobal {
	t := &TextureGlobal{Class: ImageClassSampled}
	if imgType.depth == imageDepthSampled {
		t.Class = ImageClassDepth
	}
	switch imgType.dim {
	case dimDim1D:
		t.Dim = ImageDimension1D
	case dimDim2D:
		t.Dim = ImageDimension2D
	case dimDim3D:
		t.Dim = ImageDimension3D
	case dimDimCube:
		t.Dim = ImageDimensionCube
	}
	t.Arrayed = imgType.arrayed != 0
	t.Multisampled = imgType.ms != 0

	componentType, ok := types[imgType.component]
	if ok {
		switch componentType.kind {
		case "float":
			t.SampleKind = SampleKindFloat
		case "int":
			if componentType.width != 0 {
				t.SampleKind = SampleKindSint
			}
		}
	}
	t.Filterable = t.SampleKind == SampleKindFloat
	return t
}

func entryPointTargetsName(name string, names map[int]string, id int) bool {
	return names[id] == name
}

func intOrZero(words []uint32, i int) int {
	if i < len(words) {
		return int(words[i])
	}
	return 0
}

// decodeSPIRVString decodes a NUL-terminated, word-packed UTF-8 literal
// string starting at the given operand words.
func decodeSPIRVString(words []uint32) string {
	s, _ := decodeSPIRVStringWithLength(words)
	return s
}

// decodeSPIRVStringWithLength decodes the literal string and also
// returns how many words it consumed, so callers can resume reading
// trailing operands (e.g. OpEntryPoint's interface id list).
func decodeSPIRVStringWithLength(words []uint32) (string, int) {
	var buf []byte
	for i, w := range words {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], w)
		for _, c := range b {
			if c == 0 {
				return string(buf), i + 1
			}
			buf = append(buf, c)
		}
	}
	return string(buf), len(words)
}
