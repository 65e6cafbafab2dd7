// Package model provides the data structures for a pipeline description.
// It defines the pipeline, the steps it owns and the parameters mapping of each
// step, together with the JSON document contract used to load and persist them.
//
// Values are treated as immutable by callers: reading parameters returns a
// copy, and changing them goes through Step.WithParams and Pipeline.ReplaceStep.
// Fields this package does not interpret are carried as raw JSON so a document
// survives a decode/encode round trip unchanged.
package model
