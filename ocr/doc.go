// Package ocr defines the boundary to the text-recognition engine that
// consumes preprocessed buffers. The interfaces are intentionally small and
// transport-agnostic so engines can be backed by native libraries (the
// default is Tesseract via the tesseract subpackage), local binaries, or
// remote APIs without leaking provider-specific concerns into callers. This
// module never depends on an engine's internals.
package ocr
