// Command ocrprep preprocesses an image for OCR and optionally runs the
// default Tesseract engine on the result.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/wudi/ocrkit/binarize"
	"github.com/wudi/ocrkit/geometry"
	"github.com/wudi/ocrkit/imageio"
	"github.com/wudi/ocrkit/morphology"
	"github.com/wudi/ocrkit/ocr"
	_ "github.com/wudi/ocrkit/ocr/tesseract"
	"github.com/wudi/ocrkit/pipeline"
)

func main() {
	var (
		inPath    = flag.String("in", "", "input image path")
		outPath   = flag.String("out", "processed.png", "output image path")
		lang      = flag.String("lang", "eng", "language hint for recognition")
		recognize = flag.Bool("ocr", false, "run OCR on the processed image")
		adaptive  = flag.Bool("adaptive", true, "derive parameters from image quality")
		binMethod = flag.String("binarize", "otsu", "binarization method: none|adaptive|otsu|mean|sauvola")
		morphOp   = flag.String("morphology", "none", "morphology: none|erode|dilate|opening|closing")
		skew      = flag.String("skew", "projection", "deskew method: line_based|projection")
	)
	flag.Parse()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "usage: ocrprep -in <image> [-out processed.png] [-ocr]")
		os.Exit(1)
	}
	if err := run(*inPath, *outPath, *lang, *binMethod, *morphOp, *skew, *recognize, *adaptive); err != nil {
		fmt.Fprintf(os.Stderr, "ocrprep: %v\n", err)
		os.Exit(1)
	}
}

func run(inPath, outPath, lang, binMethod, morphOp, skew string, recognize, adaptive bool) error {
	buf, err := imageio.Open(inPath)
	if err != nil {
		return err
	}

	params := pipeline.DefaultParams()
	params.Binarization = binarize.ParseMethod(binMethod)
	params.Morphology = morphology.ParseOp(morphOp)
	params.SkewMethod = geometry.ParseMethod(skew)
	params.AdaptiveMode = adaptive

	res, err := pipeline.Preprocess(context.Background(), buf, params)
	if err != nil {
		return err
	}
	if res.Quality != nil {
		fmt.Printf("quality: blur=%.1f contrast=%.1f noise=%.1f brightness=%.1f\n",
			res.Quality.BlurScore, res.Quality.ContrastScore, res.Quality.NoiseLevel, res.Quality.BrightnessLevel)
	}

	if err := imageio.Save(res.Buffer, outPath); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%dx%d)\n", outPath, res.Buffer.Width(), res.Buffer.Height())

	if !recognize {
		return nil
	}
	result, err := ocr.RecognizeBuffer(context.Background(), nil, res.Buffer, ocr.WithLanguages(lang))
	if err != nil {
		return fmt.Errorf("recognize: %w", err)
	}
	fmt.Println(result.PlainText)
	return nil
}
