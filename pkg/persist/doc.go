// Package persist moves frames between a frames.Registry and storage.
//
// A Store only loads and saves one frames.Record per resource id. The
// Adapter layers the registry semantics on top: a load fails when the
// resource is missing or the target id is already resident, a store fails
// when the frame does not exist, and frameset loads and stores walk the
// membership after the frameset frame itself, stopping at the first member
// that fails without undoing the members already done.
//
// FileStore and BadgerStore persist records in the line format implemented
// by internal/lineformat.
package persist
