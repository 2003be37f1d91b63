package scanning

import "image"

// Point is one corner of a detected symbol, in pixel coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect is the axis-aligned bounding box of a detected symbol.
type Rect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Result is one decoded symbol from a single image or frame.
type Result struct {
	Data      string  `json:"data"`
	Symbology string  `json:"type"`
	Rect      Rect    `json:"rect"`
	Polygon   []Point `json:"polygon"`
}

// Decoder finds and decodes QR codes and barcodes in an image.
// Implementations return zero results (not an error) when nothing is found.
type Decoder interface {
	Decode(img image.Image) ([]Result, error)

	// Close releases decoder resources
	Close() error
}

// BoundingRect computes the axis-aligned bounding box of a polygon.
func BoundingRect(polygon []Point) Rect {
	if len(polygon) == 0 {
		return Rect{}
	}

	minX, minY := polygon[0].X, polygon[0].Y
	maxX, maxY := minX, minY
	for _, p := range polygon[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	return Rect{
		Left:   minX,
		Top:    minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}
