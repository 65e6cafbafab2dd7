// Package pipeline gives code running inside a pipeline step access to the
// parameters of that step.
//
// A pipeline is described by a JSON document. Every call loads the document
// fresh, works out which step is executing from an explicit
// identity.ExecContext, and then either returns the parameters of that step
// (GetParams) or merges new values into them and rewrites the whole document
// (UpdateParams).
//
// Merging is shallow: keys given to UpdateParams overwrite or extend the
// current parameters, keys not given are kept, and nested mappings are
// replaced rather than merged.
//
// Errors are typed so callers can tell failures apart with errors.As:
// codec.DocumentReadError and codec.DocumentWriteError for document I/O,
// model.StepNotFoundError when the resolved UUID is not in the pipeline, and
// ParameterResolutionError, wrapping the resolver failure, when the current
// step cannot be determined. An update that fails before writing leaves the
// document untouched.
//
// No locking is done. Two processes updating the same document concurrently
// race, and the last one to write wins.
package pipeline
