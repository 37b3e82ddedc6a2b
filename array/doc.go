// Package array re-exports the evaluation engine's dtype/device/shape
// vocabulary and wraps internal/core, expr and internal/dispatch behind
// one value type: construct with New/NewScalar/NewFrom, build expressions
// with the operator methods, and materialize with Eval (or Dot, which
// materializes immediately since it is a reduction, not a pointwise op).
package array
