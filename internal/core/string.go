package core

import "fmt"

// String is deliberately minimal: textual pretty-printing of array
// contents is out of scope beyond this summary form.
func (a *Array) String() string {
	if a.Uninitialized() {
		return "Array(uninitialized)"
	}
	return fmt.Sprintf("Array(dtype=%s, device=%s, extent=%v)", a.Dtype, a.Device, a.Extent)
}
