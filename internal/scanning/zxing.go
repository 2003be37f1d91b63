package scanning

import (
	"fmt"
	"image"
	"math"
	"unicode/utf8"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/datamatrix"
	"github.com/makiuchi-d/gozxing/multi"
	qrmulti "github.com/makiuchi-d/gozxing/multi/qrcode"
	"github.com/makiuchi-d/gozxing/oned"
)

// ZXingDecoder implements the Decoder interface using the gozxing port
// of the ZXing barcode library. It decodes QR codes, all one-dimensional
// barcode families and Data Matrix symbols — multiple symbols per image
// in every family.
type ZXingDecoder struct {
	readers []multi.MultipleBarcodeReader
	hints   map[gozxing.DecodeHintType]interface{}
}

// NewZXingDecoder creates a new ZXing-backed decoder
func NewZXingDecoder() *ZXingDecoder {
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	return &ZXingDecoder{
		readers: []multi.MultipleBarcodeReader{
			qrmulti.NewQRCodeMultiReader(),
			multi.NewGenericMultipleBarcodeReader(oned.NewMultiFormatOneDReader(hints)),
			multi.NewGenericMultipleBarcodeReader(datamatrix.NewDataMatrixReader()),
		},
		hints: hints,
	}
}

// Decode finds all decodable symbols in the image. Symbols whose payload
// is not valid UTF-8 are dropped. "Nothing found" is not an error; only a
// failure to binarize the image is reported.
func (d *ZXingDecoder) Decode(img image.Image) ([]Result, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("binarizing image: %w", err)
	}

	var results []Result
	for _, reader := range d.readers {
		found, err := reader.DecodeMultiple(bmp, d.hints)
		if err != nil {
			continue
		}
		for _, r := range found {
			if res, ok := toResult(r); ok {
				results = append(results, res)
			}
		}
	}

	return results, nil
}

// Close releases decoder resources (the pure-Go backend holds none)
func (d *ZXingDecoder) Close() error {
	return nil
}

// toResult maps a gozxing result into the package shape. The second
// return is false when the payload is not UTF-8 decodable.
func toResult(r *gozxing.Result) (Result, bool) {
	data := r.GetText()
	if !utf8.ValidString(data) {
		return Result{}, false
	}

	points := r.GetResultPoints()
	polygon := make([]Point, 0, len(points))
	for _, p := range points {
		polygon = append(polygon, Point{
			X: int(math.Round(float64(p.GetX()))),
			Y: int(math.Round(float64(p.GetY()))),
		})
	}

	return Result{
		Data:      data,
		Symbology: r.GetBarcodeFormat().String(),
		Rect:      BoundingRect(polygon),
		Polygon:   polygon,
	}, true
}
