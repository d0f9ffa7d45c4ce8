// Package raster provides the pixel buffer that flows through the
// preprocessing pipeline. A Buffer is a dense row-major RGBA8 raster with the
// alpha channel pinned to 255; grayscale values are derived on demand and
// never cached. Every operation in this module produces a new, independently
// owned buffer, which keeps concurrent pipeline runs free of shared mutable
// state.
package raster
