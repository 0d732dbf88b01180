package awbundle

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// ManifestVersion is the schema version of the bundle manifest layout.
const ManifestVersion = "1"

// ManifestName is the manifest file name inside the build directory.
const ManifestName = "bundle.json"

// BundleManifest is the serialized form of a BundleSpec handed to the
// packaging process, with content hashes so the packager can verify its
// inputs.
type BundleManifest struct {
	// Version is the schema version of the manifest layout.
	Version string `json:"version"`

	// GeneratedAt is when the manifest was produced.
	GeneratedAt time.Time `json:"generatedAt"`

	// Spec echoes the bundle configuration this manifest was built from.
	Spec BundleSpec `json:"spec"`

	// TotalFiles is the count of input files, entry script included.
	TotalFiles int `json:"totalFiles"`

	// Files lists every input file with its size and checksum.
	Files []FileEntry `json:"files"`
}

// FileEntry records one input file of the bundle.
type FileEntry struct {
	// Path is the file's location inside the bundle.
	Path string `json:"path"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`

	// SHA256 is the hex checksum of the file content.
	SHA256 string `json:"sha256"`
}

// BuildManifest hashes the spec's entry script and assets into a manifest.
// All declared sources must exist; run Validate first for friendlier errors.
func BuildManifest(spec BundleSpec) (BundleManifest, error) {
	m := BundleManifest{
		Version:     ManifestVersion,
		GeneratedAt: time.Now().UTC(),
		Spec:        spec,
	}

	entry, err := hashFile(spec.Entry, filepath.Base(spec.Entry))
	if err != nil {
		return BundleManifest{}, fmt.Errorf("entry script: %w", err)
	}
	m.Files = append(m.Files, entry)

	for _, a := range spec.Assets {
		fe, err := hashFile(a.Source, filepath.ToSlash(filepath.Join(a.Dest, filepath.Base(a.Source))))
		if err != nil {
			return BundleManifest{}, fmt.Errorf("asset: %w", err)
		}
		m.Files = append(m.Files, fe)
	}

	m.TotalFiles = len(m.Files)
	return m, nil
}

// WriteManifest builds the manifest and writes it to dir/bundle.json.
func WriteManifest(spec BundleSpec, dir string) error {
	m, err := BuildManifest(spec)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, ManifestName), append(data, '\n'), 0o644)
}

func hashFile(source, bundlePath string) (FileEntry, error) {
	f, err := os.Open(source)
	if err != nil {
		return FileEntry{}, err
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return FileEntry{}, fmt.Errorf("hashing %s: %w", source, err)
	}

	return FileEntry{
		Path:   bundlePath,
		Size:   n,
		SHA256: hex.EncodeToString(h.Sum(nil)),
	}, nil
}
