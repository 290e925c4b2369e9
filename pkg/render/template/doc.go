// Package template defines the engine-agnostic seam the render bridge talks
// to. The pongo2-backed implementation lives in the gotemplate subpackage.
package template
