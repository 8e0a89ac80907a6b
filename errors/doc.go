/*
Package errors implements custom error interfaces for the marketplace.

The idea is to reuse as many errors from this package as possible and
define custom package errors only when the root cause cannot be
described by an already existing error. Extensions register their own
root errors with a unique code using the Register function.

Whenever returning an error, wrap it with additional context. Wrapping
attaches a stack trace the first time it happens, so errors can be
traced back to their origin even after crossing many layers.
*/
package errors
