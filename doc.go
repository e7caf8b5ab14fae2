// Package deriv differentiates single-variable polynomials by the power rule.
//
// An expression is a sum of terms like "5x^3", "2x", or "4", joined by + and
// -. "5x^3 + 2x^2 + 6x + 4" has the derivative "15x^2 + 4x + 6". Constant
// terms drop out of the result entirely rather than appearing as 0, so the
// derivative of a bare constant is the empty string.
//
// Derivatives are themselves valid input to Eval, which computes their value
// at a point with arbitrary precision.
package deriv
