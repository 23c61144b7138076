// Package registry provides the central "glue" between module manifests and
// compiled Go code.
//
// A module manifest designates its capability class, test double and config
// context by name; the Registry stores the mapping from those names to the
// actual compiled constructors and objects. Registration is explicit: a
// module's Register method names each piece, so the loader never scans type
// hierarchies to discover them.
//
// The universe resolves these names during module patch-up, turning a name
// mismatch between manifest and code into a load-time definition error
// instead of a construction-time surprise.
package registry
