package awbundle

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestPNG writes a small valid PNG at path.
func writeTestPNG(t *testing.T, path string, size int) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 0x33, G: 0x66, B: 0x99, A: 0xFF})
		}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestResolveIcon_ExistingICOWins(t *testing.T) {
	dir := t.TempDir()
	icoPath := filepath.Join(dir, "icon.ico")
	pngPath := filepath.Join(dir, "icon.png")

	// Deliberately not a real ICO: step 1 must not inspect or rewrite it.
	require.NoError(t, os.WriteFile(icoPath, []byte("pre-existing"), 0o644))

	res := ResolveIcon(icoPath, pngPath)
	assert.Equal(t, IconExisting, res.Outcome)
	assert.Equal(t, icoPath, res.Path)

	data, err := os.ReadFile(icoPath)
	require.NoError(t, err)
	assert.Equal(t, "pre-existing", string(data), "existing icon must not be modified")

	// Same result when the PNG exists too.
	writeTestPNG(t, pngPath, 64)
	res = ResolveIcon(icoPath, pngPath)
	assert.Equal(t, IconExisting, res.Outcome)
	assert.Equal(t, icoPath, res.Path)
}

func TestResolveIcon_AbsentWhenNoSources(t *testing.T) {
	dir := t.TempDir()

	res := ResolveIcon(filepath.Join(dir, "icon.ico"), filepath.Join(dir, "icon.png"))
	assert.Equal(t, IconAbsent, res.Outcome)
	assert.Empty(t, res.Path)
	assert.Empty(t, dirEntries(t, dir), "no file may be created")
}

func TestResolveIcon_NoEncoderFallback(t *testing.T) {
	saved := icoEncoder
	icoEncoder = nil
	t.Cleanup(func() { icoEncoder = saved })

	dir := t.TempDir()
	icoPath := filepath.Join(dir, "icon.ico")
	pngPath := filepath.Join(dir, "icon.png")
	writeTestPNG(t, pngPath, 64)

	res := ResolveIcon(icoPath, pngPath)
	assert.Equal(t, IconFallback, res.Outcome)
	assert.Equal(t, pngPath, res.Path)
	assert.Equal(t, FallbackNoEncoder, res.Reason)
	assert.Equal(t, []string{"icon.png"}, dirEntries(t, dir), "no file may be created")
}

func TestResolveIcon_ConvertsPNG(t *testing.T) {
	dir := t.TempDir()
	icoPath := filepath.Join(dir, "icon.ico")
	pngPath := filepath.Join(dir, "icon.png")
	writeTestPNG(t, pngPath, 300)

	res := ResolveIcon(icoPath, pngPath)
	require.Equal(t, IconConverted, res.Outcome)
	assert.Equal(t, icoPath, res.Path)

	data, err := os.ReadFile(icoPath)
	require.NoError(t, err)

	// ICONDIR header: reserved=0, type=1 (icon), count=len(icoSizes).
	require.GreaterOrEqual(t, len(data), 6)
	assert.Equal(t, []byte{0, 0, 1, 0}, data[:4])
	assert.EqualValues(t, len(icoSizes), int(data[4])|int(data[5])<<8)

	assert.ElementsMatch(t, []string{"icon.ico", "icon.png"}, dirEntries(t, dir), "no temp file may remain")

	// Once converted, repeated builds short-circuit on the existing ICO.
	res = ResolveIcon(icoPath, pngPath)
	assert.Equal(t, IconExisting, res.Outcome)
}

func TestResolveIcon_CorruptPNGFallback(t *testing.T) {
	dir := t.TempDir()
	icoPath := filepath.Join(dir, "icon.ico")
	pngPath := filepath.Join(dir, "icon.png")
	require.NoError(t, os.WriteFile(pngPath, []byte("not a png at all"), 0o644))

	res := ResolveIcon(icoPath, pngPath)
	assert.Equal(t, IconFallback, res.Outcome)
	assert.Equal(t, pngPath, res.Path)
	assert.Equal(t, FallbackConvertError, res.Reason)
	assert.Error(t, res.Err)

	assert.NoFileExists(t, icoPath)
	assert.Equal(t, []string{"icon.png"}, dirEntries(t, dir), "no partial output may remain")
}

func TestResolveIcon_EncoderErrorLeavesNoPartialFile(t *testing.T) {
	saved := icoEncoder
	icoEncoder = func(w io.Writer, m []image.Image) error {
		// Write something first so a leaked temp file would be visible.
		w.Write([]byte{0, 0, 1, 0})
		return errors.New("encode blew up")
	}
	t.Cleanup(func() { icoEncoder = saved })

	dir := t.TempDir()
	icoPath := filepath.Join(dir, "icon.ico")
	pngPath := filepath.Join(dir, "icon.png")
	writeTestPNG(t, pngPath, 32)

	res := ResolveIcon(icoPath, pngPath)
	assert.Equal(t, IconFallback, res.Outcome)
	assert.Equal(t, pngPath, res.Path)
	assert.Equal(t, FallbackConvertError, res.Reason)

	assert.NoFileExists(t, icoPath)
	assert.Equal(t, []string{"icon.png"}, dirEntries(t, dir), "failed encode must clean up its temp file")
}

func TestScaleSquare(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 100, 50))

	dst := scaleSquare(src, 64)
	assert.Equal(t, image.Rect(0, 0, 64, 64), dst.Bounds())

	// Already the right size: returned as-is.
	square := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	assert.Equal(t, image.Image(square), scaleSquare(square, 64))
}
