// Package awbundle assembles the bundle configuration used to package the
// AutoWake desktop application into a standalone executable. It owns the
// declarative part of the build: which files go into the bundle, under what
// name the executable ships, and which icon it carries. The packaging step
// itself is an external tool that consumes what this package produces.
package awbundle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// OutputName is the name of the produced executable, without extension.
const OutputName = "autowake_beta"

// entryScript is the application entry point, relative to the project root.
const entryScript = "ensure_link.py"

// assetDir is both the source directory under the project root and the
// destination label inside the bundle.
const assetDir = "assets"

// canonicalAssets is the single source of truth for bundled data files,
// ordered. The minimal variant ships a prefix of this list, the full variant
// ships all of it; neither maintains its own copy.
var canonicalAssets = []string{
	"default_saver.png",
	"notice_default_1.png",
	"notice_default_2.png",
	"icon.png",
	"logo.png",
}

// minimalAssetCount is how many of canonicalAssets the minimal variant ships.
const minimalAssetCount = 1

// AssetRef pairs a source file with its destination label inside the bundle.
type AssetRef struct {
	Source string `json:"source"`
	Dest   string `json:"dest"`
}

// BundleSpec is the full description handed to the external packaging
// process. It is constructed once per build and read-only afterwards.
type BundleSpec struct {
	Name   string     `json:"name"`
	Entry  string     `json:"entry"`
	Assets []AssetRef `json:"assets"`

	// Icon is the resolved icon path, empty when no icon is embedded. It may
	// be a PNG when ICO conversion degraded; see ResolveIcon.
	Icon string `json:"icon,omitempty"`

	// IconOutcome records how Icon was resolved.
	IconOutcome IconOutcome `json:"-"`

	Console bool `json:"console"`
	UPX     bool `json:"upx"`
	Strip   bool `json:"strip"`

	TargetArch       string `json:"target_arch,omitempty"`
	CodesignIdentity string `json:"codesign_identity,omitempty"`
	Entitlements     string `json:"entitlements,omitempty"`
}

// MinimalSpec builds the minimal bundle variant: the entry script plus the
// default screensaver image, no icon. root is the project root; it must be
// passed explicitly, ambient working-directory lookup belongs to the caller.
func MinimalSpec(root string) BundleSpec {
	return newSpec(root, canonicalAssets[:minimalAssetCount], IconResolution{})
}

// FullSpec builds the complete bundle variant: all data files plus an icon
// resolved best-effort from assets/icon.ico and assets/icon.png.
func FullSpec(root string) BundleSpec {
	res := ResolveIcon(
		filepath.Join(root, assetDir, "icon.ico"),
		filepath.Join(root, assetDir, "icon.png"),
	)
	return newSpec(root, canonicalAssets, res)
}

func newSpec(root string, assets []string, icon IconResolution) BundleSpec {
	refs := make([]AssetRef, 0, len(assets))
	for _, name := range assets {
		refs = append(refs, AssetRef{
			Source: filepath.Join(root, assetDir, name),
			Dest:   assetDir,
		})
	}
	return BundleSpec{
		Name:        OutputName,
		Entry:       filepath.Join(root, entryScript),
		Assets:      refs,
		Icon:        icon.Path,
		IconOutcome: icon.Outcome,
		Console:     false,
		UPX:         true,
		Strip:       false,
	}
}

// Validate checks that every declared input exists on disk. A missing entry
// script or asset would otherwise only surface as an opaque failure inside
// the external packaging process. An absent icon is a valid state, not an
// error.
func (s BundleSpec) Validate() error {
	var errs []error
	if _, err := os.Stat(s.Entry); err != nil {
		errs = append(errs, fmt.Errorf("entry script %s: %w", s.Entry, err))
	}
	for _, a := range s.Assets {
		if _, err := os.Stat(a.Source); err != nil {
			errs = append(errs, fmt.Errorf("asset %s: %w", a.Source, err))
		}
	}
	return errors.Join(errs...)
}
