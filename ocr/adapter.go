package ocr

import (
	"bytes"
	"fmt"

	"github.com/wudi/ocrkit/imageio"
	"github.com/wudi/ocrkit/raster"
)

// InputOption mutates an OCR input before submission.
type InputOption func(*Input)

// WithID sets the caller-provided identifier echoed back in the Result.
func WithID(id string) InputOption {
	return func(in *Input) { in.ID = id }
}

// WithLanguages sets language hints on the OCR input.
func WithLanguages(langs ...string) InputOption {
	return func(in *Input) { in.Languages = append([]string(nil), langs...) }
}

// WithRegion sets the recognition region on the OCR input.
func WithRegion(region Region) InputOption {
	return func(in *Input) {
		if region.IsEmpty() {
			in.Region = nil
			return
		}
		in.Region = &region
	}
}

// WithDPI overrides the DPI value on the OCR input.
func WithDPI(dpi int) InputOption {
	return func(in *Input) { in.DPI = dpi }
}

// WithMetadata sets provider-specific metadata for the input.
func WithMetadata(metadata map[string]string) InputOption {
	return func(in *Input) {
		if len(metadata) == 0 {
			in.Metadata = nil
			return
		}
		in.Metadata = make(map[string]string, len(metadata))
		for k, v := range metadata {
			in.Metadata[k] = v
		}
	}
}

// InputFromBuffer converts a preprocessed buffer into an OCR input using PNG
// encoding. The default ID encodes the buffer dimensions; override it with
// WithID when correlating multiple submissions.
func InputFromBuffer(buf *raster.Buffer, opts ...InputOption) (Input, error) {
	var data bytes.Buffer
	if err := imageio.EncodePNG(&data, buf); err != nil {
		return Input{}, fmt.Errorf("encode buffer: %w", err)
	}
	in := Input{
		ID:     fmt.Sprintf("buffer-%dx%d", buf.Width(), buf.Height()),
		Image:  data.Bytes(),
		Format: ImageFormatPNG,
	}
	for _, opt := range opts {
		opt(&in)
	}
	return in, nil
}
