package awbundle

import (
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"

	ico "github.com/sergeymakinen/go-ico"
	xdraw "golang.org/x/image/draw"
)

// icoSizes is the resolution set written into generated icons. Windows picks
// the closest match at display time.
var icoSizes = []int{256, 128, 64, 32, 16}

// icoEncoder writes a multi-image ICO. It is a hook so tests can simulate a
// build environment without ICO support.
var icoEncoder = ico.EncodeAll

// IconOutcome says how ResolveIcon arrived at its result.
type IconOutcome int

const (
	// IconAbsent means neither the ICO nor the source PNG exists.
	IconAbsent IconOutcome = iota

	// IconExisting means the ICO was already on disk and was returned as-is.
	IconExisting

	// IconConverted means the ICO was freshly generated from the source PNG.
	IconConverted

	// IconFallback means conversion was not possible and the PNG itself is
	// returned as a degraded icon input.
	IconFallback
)

func (o IconOutcome) String() string {
	switch o {
	case IconExisting:
		return "existing"
	case IconConverted:
		return "converted"
	case IconFallback:
		return "fallback"
	default:
		return "absent"
	}
}

// FallbackReason distinguishes the two degraded paths of ResolveIcon.
type FallbackReason int

const (
	FallbackNone FallbackReason = iota

	// FallbackNoEncoder: no ICO encoder is available in this build.
	FallbackNoEncoder

	// FallbackConvertError: decoding, scaling or encoding failed.
	FallbackConvertError
)

// IconResolution is the tagged result of ResolveIcon. Path is empty only for
// IconAbsent. Err is set only for FallbackConvertError and is informational;
// it is never a build failure.
type IconResolution struct {
	Outcome IconOutcome
	Path    string
	Reason  FallbackReason
	Err     error
}

// ResolveIcon resolves the icon to embed in the output executable, converting
// icoPath from pngPath when needed. It is best effort and never fails the
// build: every error degrades to the PNG fallback or to an absent icon.
//
// The step policy is ordered, first match wins:
//
//  1. icoPath already exists: returned unchanged, nothing is touched. This
//     makes repeated builds idempotent once an ICO has been produced.
//  2. pngPath does not exist: absent, no icon will be embedded.
//  3. no ICO encoder available: pngPath is returned as a degraded icon.
//  4. otherwise pngPath is scaled to the icoSizes set and written to icoPath.
//  5. any conversion error: pngPath is returned, as in step 3.
func ResolveIcon(icoPath, pngPath string) IconResolution {
	if _, err := os.Stat(icoPath); err == nil {
		return IconResolution{Outcome: IconExisting, Path: icoPath}
	}
	if _, err := os.Stat(pngPath); err != nil {
		return IconResolution{Outcome: IconAbsent}
	}
	if icoEncoder == nil {
		return IconResolution{Outcome: IconFallback, Path: pngPath, Reason: FallbackNoEncoder}
	}
	if err := convertIcon(icoPath, pngPath); err != nil {
		return IconResolution{Outcome: IconFallback, Path: pngPath, Reason: FallbackConvertError, Err: err}
	}
	return IconResolution{Outcome: IconConverted, Path: icoPath}
}

// convertIcon renders pngPath into a multi-resolution ICO at icoPath. The
// output goes through a temp file in the same directory so a failed encode
// cannot leave a truncated icon behind.
func convertIcon(icoPath, pngPath string) (err error) {
	src, err := os.Open(pngPath)
	if err != nil {
		return err
	}
	defer src.Close()

	img, err := png.Decode(src)
	if err != nil {
		return err
	}

	images := make([]image.Image, 0, len(icoSizes))
	for _, size := range icoSizes {
		images = append(images, scaleSquare(img, size))
	}

	tmp, err := os.CreateTemp(filepath.Dir(icoPath), ".icon-*.ico")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = icoEncoder(tmp, images); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), icoPath)
}

// scaleSquare fits src into a size×size canvas, preserving aspect ratio and
// centering the result.
func scaleSquare(src image.Image, size int) image.Image {
	b := src.Bounds()
	if b.Dx() == size && b.Dy() == size {
		return src
	}

	scale := math.Min(float64(size)/float64(b.Dx()), float64(size)/float64(b.Dy()))
	w := int(math.Round(float64(b.Dx()) * scale))
	h := int(math.Round(float64(b.Dy()) * scale))

	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	offX := (size - w) / 2
	offY := (size - h) / 2
	xdraw.CatmullRom.Scale(dst, image.Rect(offX, offY, offX+w, offY+h), src, b, xdraw.Over, nil)
	return dst
}
