package awbundle

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Stage copies the spec's entry script and assets into dir, laid out the way
// the packaging process expects them: the entry script at the top level, each
// asset under its destination label. Missing sources are reported as errors;
// unlike icon resolution, staging has no degraded mode.
func Stage(spec BundleSpec, dir string) error {
	if err := copyFile(spec.Entry, filepath.Join(dir, filepath.Base(spec.Entry))); err != nil {
		return fmt.Errorf("staging entry script: %w", err)
	}
	for _, a := range spec.Assets {
		dst := filepath.Join(dir, a.Dest, filepath.Base(a.Source))
		if err := copyFile(a.Source, dst); err != nil {
			return fmt.Errorf("staging asset: %w", err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return out.Close()
}
