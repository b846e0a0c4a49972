package shader

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// WGSL front end. Grounded on
// engine/renderer/shader/wgsl_parser.go and wgsl_parser_backend.go's
// regex-driven struct/binding/entry-point extraction and
// resolveTypeLayout/computeStructLayout sizing algorithm, generalized
// from "parse straight to wgpu.BindGroupLayoutEntry" into "parse to
// ModuleIR, then let reflect.go classify", since the reflector (unlike
// the teacher's Shader) needs per-entry-point global usage and sampler
// filterability, not just one flat layout per shader file.

var (
	structBlockRegex   = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)
	fieldRegex         = regexp.MustCompile(`(?:(?:@\w+\([^)]*\)\s*)*)*\s*(\w+)\s*:\s*(.+)`)
	computeEntryRegex  = regexp.MustCompile(`(?s)@compute(?:\s*@workgroup_size\(([^)]*)\))?\s*\n?\s*fn\s+(\w+)\s*\((?:[^()]|\([^()]*\))*\)\s*\{`)
	workgroupSizeRegex = regexp.MustCompile(`@workgroup_size\(\s*(\d+)\s*(?:,\s*(\d+)\s*(?:,\s*(\d+)\s*)?)?\)`)
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)

	wgslSampleTypeMap = map[string]SampleTypeKindIR{
		"f32": SampleKindFloat,
		"i32": SampleKindSint,
		"u32": SampleKindUint,
	}

	wgslSampledTextureDimMap = map[string]ImageDimensionKind{
		"texture_1d":                    ImageDimension1D,
		"texture_2d":                    ImageDimension2D,
		"texture_2d_array":              ImageDimension2D,
		"texture_3d":                    ImageDimension3D,
		"texture_cube":                  ImageDimensionCube,
		"texture_cube_array":            ImageDimensionCube,
		"texture_multisampled_2d":       ImageDimension2D,
		"texture_depth_2d":              ImageDimension2D,
		"texture_depth_2d_array":        ImageDimension2D,
		"texture_depth_cube":            ImageDimensionCube,
		"texture_depth_cube_array":      ImageDimensionCube,
		"texture_depth_multisampled_2d": ImageDimension2D,
	}

	wgslArrayedDimensions = map[string]bool{
		"texture_2d_array":         true,
		"texture_cube_array":       true,
		"texture_depth_2d_array":   true,
		"texture_depth_cube_array": true,
	}

	wgslMultisampledDims = map[string]bool{
		"texture_multisampled_2d":       true,
		"texture_depth_multisampled_2d": true,
	}

	wgslStorageTextureDimMap = map[string]ImageDimensionKind{
		"texture_storage_1d":       ImageDimension1D,
		"texture_storage_2d":       ImageDimension2D,
		"texture_storage_2d_array": ImageDimension2D,
		"texture_storage_3d":       ImageDimension3D,
	}

	wgslStorageAccessMap = map[string]wgpu.StorageTextureAccess{
		"write":      wgpu.StorageTextureAccessWriteOnly,
		"read":       wgpu.StorageTextureAccessReadOnly,
		"read_write": wgpu.StorageTextureAccessReadWrite,
	}

	wgslTexelFormatMap = map[string]wgpu.TextureFormat{
		"rgba8unorm":  wgpu.TextureFormatRGBA8Unorm,
		"rgba8snorm":  wgpu.TextureFormatRGBA8Snorm,
		"rgba8uint":   wgpu.TextureFormatRGBA8Uint,
		"rgba8sint":   wgpu.TextureFormatRGBA8Sint,
		"rgba16uint":  wgpu.TextureFormatRGBA16Uint,
		"rgba16sint":  wgpu.TextureFormatRGBA16Sint,
		"rgba16float": wgpu.TextureFormatRGBA16Float,
		"r32uint":     wgpu.TextureFormatR32Uint,
		"r32sint":     wgpu.TextureFormatR32Sint,
		"r32float":    wgpu.TextureFormatR32Float,
		"rg32uint":    wgpu.TextureFormatRG32Uint,
		"rg32sint":    wgpu.TextureFormatRG32Sint,
		"rg32float":   wgpu.TextureFormatRG32Float,
		"rgba32uint":  wgpu.TextureFormatRGBA32Uint,
		"rgba32sint":  wgpu.TextureFormatRGBA32Sint,
		"rgba32float": wgpu.TextureFormatRGBA32Float,
		"bgra8unorm":  wgpu.TextureFormatBGRA8Unorm,
	}
)

type wgslTypeLayout struct {
	size  uint64
	align uint64
}

var wgslPrimitiveLayoutMap = map[string]wgslTypeLayout{
	"f32": {4, 4}, "i32": {4, 4}, "u32": {4, 4}, "f16": {2, 2}, "bool": {4, 4},
	"vec2<f32>": {8, 8}, "vec2f": {8, 8},
	"vec3<f32>": {12, 16}, "vec3f": {12, 16},
	"vec4<f32>": {16, 16}, "vec4f": {16, 16},
	"vec2<i32>": {8, 8}, "vec2i": {8, 8},
	"vec3<i32>": {12, 16}, "vec3i": {12, 16},
	"vec4<i32>": {16, 16}, "vec4i": {16, 16},
	"vec2<u32>": {8, 8}, "vec2u": {8, 8},
	"vec3<u32>": {12, 16}, "vec3u": {12, 16},
	"vec4<u32>": {16, 16}, "vec4u": {16, 16},
	"mat2x2<f32>": {16, 8}, "mat2x3<f32>": {32, 16}, "mat2x4<f32>": {32, 16},
	"mat3x2<f32>": {24, 8}, "mat3x3<f32>": {48, 16}, "mat3x4<f32>": {48, 16},
	"mat4x2<f32>": {32, 8}, "mat4x3<f32>": {64, 16}, "mat4x4<f32>": {64, 16},
	"atomic<u32>": {4, 4}, "atomic<i32>": {4, 4},
}

type parsedField struct {
	name     string
	typeName string
}

type parsedStruct struct {
	name   string
	fields []parsedField
}

func roundUpAlign(alignment, value uint64) uint64 {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}

func resolveTypeLayout(typeName string, knownTypes map[string]wgslTypeLayout) (wgslTypeLayout, bool) {
	if layout, ok := wgslPrimitiveLayoutMap[typeName]; ok {
		return layout, true
	}
	if layout, ok := knownTypes[typeName]; ok {
		return layout, true
	}
	if strings.HasPrefix(typeName, "array<") && strings.HasSuffix(typeName, ">") {
		inner := typeName[len("array<") : len(typeName)-1]
		parts := strings.SplitN(inner, ",", 2)
		elemType := strings.TrimSpace(parts[0])
		elemLayout, ok := resolveTypeLayout(elemType, knownTypes)
		if !ok {
			return wgslTypeLayout{}, false
		}
		stride := roundUpAlign(elemLayout.align, elemLayout.size)
		if len(parts) == 2 {
			count, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
			if err != nil {
				return wgslTypeLayout{}, false
			}
			return wgslTypeLayout{count * stride, elemLayout.align}, true
		}
		return wgslTypeLayout{stride, elemLayout.align}, true
	}
	return wgslTypeLayout{}, false
}

func computeStructLayout(ps parsedStruct, knownTypes map[string]wgslTypeLayout) (wgslTypeLayout, bool) {
	offset := uint64(0)
	maxAlign := uint64(1)
	for _, field := range ps.fields {
		fieldLayout, ok := resolveTypeLayout(field.typeName, knownTypes)
		if !ok {
			if strings.HasPrefix(field.typeName, "array<") && !strings.Contains(field.typeName, ",") {
				offset = roundUpAlign(maxAlign, offset)
				return wgslTypeLayout{offset, maxAlign}, true
			}
			return wgslTypeLayout{}, false
		}
		offset = roundUpAlign(fieldLayout.align, offset)
		offset += fieldLayout.size
		if fieldLayout.align > maxAlign {
			maxAlign = fieldLayout.align
		}
	}
	return wgslTypeLayout{roundUpAlign(maxAlign, offset), maxAlign}, true
}

func computeStructSizes(structs []parsedStruct) map[string]wgslTypeLayout {
	resolved := make(map[string]wgslTypeLayout, len(structs))
	remaining := make([]parsedStruct, len(structs))
	copy(remaining, structs)
	for {
		progress := false
		next := remaining[:0]
		for _, ps := range remaining {
			if layout, ok := computeStructLayout(ps, resolved); ok {
				resolved[ps.name] = layout
				progress = true
			} else {
				next = append(next, ps)
			}
		}
		remaining = next
		if !progress || len(remaining) == 0 {
			break
		}
	}
	return resolved
}

func splitTypeParams(typeName string) (base, params string) {
	before, after, ok := strings.Cut(typeName, "<")
	if !ok {
		return typeName, ""
	}
	return before, strings.TrimSpace(strings.TrimSuffix(after, ">"))
}

func stripBlockComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	i := 0
	for i < len(source) {
		if i+1 < len(source) && source[i] == '/' && source[i+1] == '*' {
			depth++
			i += 2
			continue
		}
		if depth > 0 && i+1 < len(source) && source[i] == '*' && source[i+1] == '/' {
			depth--
			i += 2
			continue
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
		i++
	}
	return sb.String()
}

func stripLineComments(source string) string {
	var sb strings.Builder
	for _, line := range strings.Split(source, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func stripComments(source string) string {
	return stripLineComments(stripBlockComments(source))
}

func splitAtTopLevelCommas(body string) []string {
	var out []string
	depth := 0
	start := 0
	for i, r := range body {
		switch r {
		case '<', '(', '[', '{':
			depth++
		case '>', ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, body[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, body[start:])
	return out
}

func parseStructBlocks(source string) []parsedStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]parsedStruct, 0, len(matches))
	for _, match := range matches {
		var fields []parsedField
		for _, line := range splitAtTopLevelCommas(match[2]) {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if fm := fieldRegex.FindStringSubmatch(line); fm != nil {
				fields = append(fields, parsedField{name: fm[1], typeName: strings.TrimSpace(fm[2])})
			}
		}
		structs = append(structs, parsedStruct{name: match[1], fields: fields})
	}
	return structs
}

// parseWGSL reduces WGSL source to a ModuleIR: every @group/@binding
// global classified by address space and type, and every @compute entry
// point with the set of globals its function body textually references.
func parseWGSL(source string) (*ModuleIR, error) {
	cleaned := stripComments(source)
	structSizes := computeStructSizes(parseStructBlocks(cleaned))

	ir := &ModuleIR{}
	globalsByVar := make(map[string]int)

	matches := bindGroupDeclRegex.FindAllStringSubmatch(cleaned, -1)
	for _, match := range matches {
		group, _ := strconv.Atoi(match[1])
		binding, _ := strconv.Atoi(match[2])
		addressSpace := strings.TrimSpace(match[3])
		varName := strings.TrimSpace(match[4])
		typeName := strings.TrimSpace(match[5])

		g := classifyGlobal(uint32(group), uint32(binding), addressSpace, typeName, structSizes)
		g.Name = varName
		ir.Globals = append(ir.Globals, g)
		globalsByVar[varName] = len(ir.Globals) - 1
	}

	for _, match := range computeEntryRegex.FindAllStringSubmatchIndex(cleaned, -1) {
		name := cleaned[match[4]:match[5]]
		wgSize := [3]uint32{1, 1, 1}
		if match[2] >= 0 {
			if wg := workgroupSizeRegex.FindStringSubmatch("@workgroup_size(" + cleaned[match[2]:match[3]] + ")"); wg != nil {
				wgSize = parseWorkgroupSizeMatch(wg)
			}
		}

		bodyStart := match[1]
		body := extractBraceBody(cleaned, bodyStart-1)
		used := make(map[int]bool)
		for varName, idx := range globalsByVar {
			if containsIdentifier(body, varName) {
				used[idx] = true
			}
		}

		ir.EntryPoints = append(ir.EntryPoints, EntryPoint{
			Name:          name,
			IsCompute:     true,
			WorkgroupSize: wgSize,
			UsedGlobals:   used,
			SamplingPairs: findSamplingPairs(body, ir.Globals, used),
		})
	}

	return ir, nil
}

func parseWorkgroupSizeMatch(match []string) [3]uint32 {
	result := [3]uint32{1, 1, 1}
	for i, s := range match[1:] {
		if s == "" {
			continue
		}
		if v, err := strconv.ParseUint(s, 10, 32); err == nil {
			result[i] = uint32(v)
		}
	}
	return result
}

// extractBraceBody returns the text between the brace at openIdx (the
// "{" found by computeEntryRegex) and its matching close brace.
func extractBraceBody(source string, openIdx int) string {
	if openIdx < 0 || openIdx >= len(source) || source[openIdx] != '{' {
		return ""
	}
	depth := 0
	for i := openIdx; i < len(source); i++ {
		switch source[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return source[openIdx+1 : i]
			}
		}
	}
	return source[openIdx+1:]
}

var identifierBoundary = regexp.MustCompile(`[A-Za-z0-9_]`)

func containsIdentifier(body, name string) bool {
	idx := 0
	for {
		pos := strings.Index(body[idx:], name)
		if pos < 0 {
			return false
		}
		pos += idx
		before := pos == 0 || !identifierBoundary.MatchString(string(body[pos-1]))
		after := pos+len(name) >= len(body) || !identifierBoundary.MatchString(string(body[pos+len(name)]))
		if before && after {
			return true
		}
		idx = pos + len(name)
	}
}

// textureSampleCallRegex matches textureSample(tex, samp, ...) and its
// comparison/level variants, capturing the texture and sampler argument
// names to compute sampling pairs.
var textureSampleCallRegex = regexp.MustCompile(`textureSample\w*\(\s*(\w+)\s*,\s*(\w+)`)

func findSamplingPairs(body string, globals []Global, used map[int]bool) [][2]int {
	byName := make(map[string]int, len(globals))
	for i, g := range globals {
		byName[g.Name] = i
	}
	var pairs [][2]int
	for _, m := range textureSampleCallRegex.FindAllStringSubmatch(body, -1) {
		texIdx, texOK := byName[m[1]]
		sampIdx, sampOK := byName[m[2]]
		if texOK && sampOK && used[texIdx] && used[sampIdx] {
			pairs = append(pairs, [2]int{texIdx, sampIdx})
		}
	}
	return pairs
}

// classifyGlobal turns one @group/@binding declaration into a Global,
// generalizing engine/renderer/shader/wgsl_parser_backend.go's
// classifyResource from "build a wgpu.BindGroupLayoutEntry directly"
// into "build an address-space-tagged Global" so reflect.go can apply
// the filtered-sampling-set and last-active-group logic before ever
// touching the driver.
func classifyGlobal(group, binding uint32, addressSpace, typeName string, structSizes map[string]wgslTypeLayout) Global {
	g := Global{Group: group, Binding: binding}

	if addressSpace != "" {
		switch {
		case addressSpace == "uniform":
			g.Space = AddressSpaceUniform
			g.Buffer = &BufferGlobal{}
		case strings.HasPrefix(addressSpace, "storage"):
			g.Space = AddressSpaceStorage
			g.Buffer = &BufferGlobal{ReadOnly: !strings.Contains(addressSpace, "read_write")}
		default:
			return g
		}
		if layout, ok := resolveTypeLayout(typeName, structSizes); ok {
			g.Buffer.MinBindingSize = layout.size
		}
		return g
	}

	switch {
	case typeName == "sampler":
		g.Space = AddressSpaceHandleSampler
		g.Sampler = &SamplerGlobal{}
	case typeName == "sampler_comparison":
		g.Space = AddressSpaceHandleSampler
		g.Sampler = &SamplerGlobal{Comparison: true}
	case strings.HasPrefix(typeName, "texture_storage_"):
		g.Space = AddressSpaceHandleTexture
		g.Texture = classifyStorageTextureGlobal(typeName)
	case strings.HasPrefix(typeName, "texture_depth_"):
		g.Space = AddressSpaceHandleTexture
		g.Texture = classifyDepthTextureGlobal(typeName)
	case strings.HasPrefix(typeName, "texture_"):
		g.Space = AddressSpaceHandleTexture
		g.Texture = classifySampledTextureGlobal(typeName)
	}
	return g
}

func classifySampledTextureGlobal(typeName string) *TextureGlobal {
	base, param := splitTypeParams(typeName)
	t := &TextureGlobal{Class: ImageClassSampled}
	if dim, ok := wgslSampledTextureDimMap[base]; ok {
		t.Dim = dim
	}
	t.Arrayed = wgslArrayedDimensions[base]
	t.Multisampled = wgslMultisampledDims[base]
	if kind, ok := wgslSampleTypeMap[param]; ok {
		t.SampleKind = kind
	}
	t.Filterable = t.SampleKind == SampleKindFloat
	return t
}

func classifyDepthTextureGlobal(typeName string) *TextureGlobal {
	t := &TextureGlobal{Class: ImageClassDepth}
	if dim, ok := wgslSampledTextureDimMap[typeName]; ok {
		t.Dim = dim
	}
	t.Arrayed = wgslArrayedDimensions[typeName]
	t.Multisampled = wgslMultisampledDims[typeName]
	return t
}

func classifyStorageTextureGlobal(typeName string) *TextureGlobal {
	base, params := splitTypeParams(typeName)
	t := &TextureGlobal{Class: ImageClassStorage}
	if dim, ok := wgslStorageTextureDimMap[base]; ok {
		t.Dim = dim
	}
	parts := strings.SplitN(params, ",", 2)
	if len(parts) >= 1 {
		if format, ok := wgslTexelFormatMap[strings.TrimSpace(parts[0])]; ok {
			t.StorageFormat = format
		}
	}
	if len(parts) >= 2 {
		if access, ok := wgslStorageAccessMap[strings.TrimSpace(parts[1])]; ok {
			t.StorageAccess = access
		}
	}
	return t
}
