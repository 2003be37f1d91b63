package scanning

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"time"
	"unicode/utf8"

	"gocv.io/x/gocv"
)

// WebcamOptions configures a webcam scan run.
type WebcamOptions struct {
	Device   int           // capture device index
	Duration time.Duration // wall-clock budget, 0 scans until canceled
	Preview  bool          // show a preview window with detection overlays
}

// ScanWebcam opens the capture device and decodes frames until the
// duration elapses, the preview window receives 'q', the frame stream
// ends, or ctx is canceled. Each symbol is reported through onDetect
// exactly once per run, deduplicated by decoded text. The capture handle
// is released on every exit path.
func ScanWebcam(ctx context.Context, dec Decoder, opts WebcamOptions, onDetect func(Result)) error {
	cam, err := gocv.OpenVideoCapture(opts.Device)
	if err != nil {
		return fmt.Errorf("opening camera device %d: %w", opts.Device, err)
	}
	defer cam.Close()

	var window *gocv.Window
	if opts.Preview {
		window = gocv.NewWindow("Code Scanner - Press Q to quit")
		defer window.Close()
	}

	frame := gocv.NewMat()
	defer frame.Close()

	slog.Info("Starting webcam scan", "device", opts.Device, "duration", opts.Duration)

	seen := NewDeduper()
	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Webcam scan interrupted")
			return nil
		default:
		}

		if opts.Duration > 0 && time.Since(start) >= opts.Duration {
			return nil
		}

		if ok := cam.Read(&frame); !ok {
			slog.Warn("Camera frame stream ended", "device", opts.Device)
			return nil
		}
		if frame.Empty() {
			continue
		}

		img, err := frame.ToImage()
		if err != nil {
			slog.Warn("Failed to convert frame", "error", err)
			continue
		}

		results, err := dec.Decode(img)
		if err != nil {
			slog.Warn("Failed to decode frame", "error", err)
			continue
		}

		for _, r := range results {
			if seen.Add(r.Data) {
				slog.Info("Code detected", "type", r.Symbology, "data", truncate(r.Data, 50))
				onDetect(r)
			}
		}

		if opts.Preview {
			drawDetections(&frame, results)
			window.IMShow(frame)
			if window.WaitKey(1) == 'q' {
				return nil
			}
		}
	}
}

// drawDetections overlays detection polygons and symbology labels on a frame
func drawDetections(frame *gocv.Mat, results []Result) {
	green := color.RGBA{G: 255}

	for _, r := range results {
		if len(r.Polygon) == 0 {
			continue
		}

		points := make([]image.Point, 0, len(r.Polygon))
		for _, p := range r.Polygon {
			points = append(points, image.Pt(p.X, p.Y))
		}

		pv := gocv.NewPointsVectorFromPoints([][]image.Point{points})
		gocv.Polylines(frame, pv, true, green, 2)
		pv.Close()

		gocv.PutText(frame, r.Symbology,
			image.Pt(r.Rect.Left, r.Rect.Top-10),
			gocv.FontHersheySimplex, 0.5, green, 2)
	}
}

// truncate shortens s to at most n runes, never splitting a rune
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

// Deduper tracks decoded payloads seen during a scan run.
type Deduper struct {
	seen map[string]struct{}
}

// NewDeduper creates an empty Deduper
func NewDeduper() *Deduper {
	return &Deduper{seen: make(map[string]struct{})}
}

// Add records a payload and reports whether it was new.
func (d *Deduper) Add(data string) bool {
	if _, ok := d.seen[data]; ok {
		return false
	}
	d.seen[data] = struct{}{}
	return true
}
