package service

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// ErrConvertPDF indicates markup that could not be converted to a document.
var ErrConvertPDF = errors.New("cannot convert SVG to PDF")

// Fallback page size when the SVG carries no usable viewBox (A4 landscape, pt).
const (
	defaultPageWidth  = 842
	defaultPageHeight = 595
)

// PDFService converts rendered SVG markup into a single-page PDF document.
// The SVG is rasterized and embedded at its viewBox dimensions.
type PDFService struct{}

func NewPDFService() *PDFService {
	return &PDFService{}
}

func (s *PDFService) Convert(svgContent string) ([]byte, error) {
	icon, err := oksvg.ReadIconStream(strings.NewReader(svgContent))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConvertPDF, err)
	}

	w := int(icon.ViewBox.W)
	h := int(icon.ViewBox.H)
	if w <= 0 || h <= 0 {
		w, h = defaultPageWidth, defaultPageHeight
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	icon.SetTarget(0, 0, float64(w), float64(h))
	icon.Draw(rasterx.NewDasher(w, h, rasterx.NewScannerGV(w, h, img, img.Bounds())), 1)

	var raster bytes.Buffer
	if err := png.Encode(&raster, img); err != nil {
		return nil, fmt.Errorf("encode raster: %w", err)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: float64(w), Ht: float64(h)},
	})
	pdf.AddPage()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("certificate", opts, &raster)
	pdf.ImageOptions("certificate", 0, 0, float64(w), float64(h), false, opts, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConvertPDF, err)
	}
	return out.Bytes(), nil
}
