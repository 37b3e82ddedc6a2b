package gpu

import "fmt"

// WorkgroupSize is the thread count of every workgroup: each assembled
// kernel declares @workgroup_size(512). Launch takes only the workgroup
// count from blockSize in gpu.go, so a dispatch of fewer than 512
// elements runs one full 512-thread workgroup whose threads at or past n
// return at the kernel's bounds check.
const WorkgroupSize = 512

// Fragment is one operator's contribution to an assembled kernel body:
// either an infix symbol ("+", "|") or a callable function name
// ("exp", "sqrt"), mirroring librapid's genKernel()-style per-operator
// string and the teacher's per-op WGSL shader constants.
type Fragment struct {
	Symbol string
	IsCall bool
}

// BinaryFragments holds the element-wise binary operator set named in
// the expression node algebra.
var BinaryFragments = map[string]Fragment{
	"add":        {Symbol: "+"},
	"sub":        {Symbol: "-"},
	"mul":        {Symbol: "*"},
	"div":        {Symbol: "/"},
	"bitwiseOr":  {Symbol: "|"},
	"bitwiseAnd": {Symbol: "&"},
	"bitwiseXor": {Symbol: "^"},
	"shl":        {Symbol: "<<"},
	"shr":        {Symbol: ">>"},
	"logicalAnd": {Symbol: "&&"},
	"logicalOr":  {Symbol: "||"},
	"eq":         {Symbol: "=="},
	"ne":         {Symbol: "!="},
	"lt":         {Symbol: "<"},
	"le":         {Symbol: "<="},
	"gt":         {Symbol: ">"},
	"ge":         {Symbol: ">="},
}

// UnaryFragments holds the element-wise unary operator set.
var UnaryFragments = map[string]Fragment{
	"neg":        {Symbol: "-"},
	"bitwiseNot": {Symbol: "~"},
	"logicalNot": {Symbol: "!"},
	"abs":        {Symbol: "abs", IsCall: true},
	"sqrt":       {Symbol: "sqrt", IsCall: true},
	"exp":        {Symbol: "exp", IsCall: true},
	"log":        {Symbol: "log", IsCall: true},
	"sin":        {Symbol: "sin", IsCall: true},
	"cos":        {Symbol: "cos", IsCall: true},
	"tan":        {Symbol: "tan", IsCall: true},
}

// ParamsBinding is the binding index every assembled kernel declares its
// bounds-check uniform at; Launch must supply a buffer there alongside
// the data buffers, regardless of how many of those a given op takes.
const ParamsBinding = 3

const wgslPreamble = `struct Params {
    size: u32,
};

@group(0) @binding(3) var<uniform> params: Params;
`

// AssembleBinary builds the full WGSL source for a binary elementwise
// kernel over wgslType ("f32" or "i32"). The returned text is the JIT
// cache key: identical operator+type pairs reuse the same compiled
// pipeline.
func AssembleBinary(op string, wgslType string) string {
	frag := BinaryFragments[op]
	expr := fmt.Sprintf("a[idx] %s b[idx]", frag.Symbol)
	if frag.IsCall {
		expr = fmt.Sprintf("%s(a[idx], b[idx])", frag.Symbol)
	}
	return fmt.Sprintf(`%s
@group(0) @binding(0) var<storage, read> a: array<%s>;
@group(0) @binding(1) var<storage, read> b: array<%s>;
@group(0) @binding(2) var<storage, read_write> result: array<%s>;

@compute @workgroup_size(%d)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let idx = gid.x;
    if (idx >= params.size) {
        return;
    }
    result[idx] = %s;
}
`, wgslPreamble, wgslType, wgslType, wgslType, WorkgroupSize, expr)
}

// AssembleUnary builds the full WGSL source for a unary elementwise
// kernel over wgslType.
func AssembleUnary(op string, wgslType string) string {
	frag := UnaryFragments[op]
	expr := fmt.Sprintf("%sa[idx]", frag.Symbol)
	if frag.IsCall {
		expr = fmt.Sprintf("%s(a[idx])", frag.Symbol)
	}
	return fmt.Sprintf(`%s
@group(0) @binding(0) var<storage, read> a: array<%s>;
@group(0) @binding(1) var<storage, read_write> result: array<%s>;

@compute @workgroup_size(%d)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let idx = gid.x;
    if (idx >= params.size) {
        return;
    }
    result[idx] = %s;
}
`, wgslPreamble, wgslType, wgslType, WorkgroupSize, expr)
}
