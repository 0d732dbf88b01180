package awbundle

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/josephspurrier/goversioninfo"
)

// VersionInfoName is the optional override file looked up in the project
// root. Its schema is goversioninfo's own versioninfo.json.
const VersionInfoName = "versioninfo.json"

// BuildVersionInfo assembles the Windows VERSIONINFO resource description for
// the spec's executable. The icon is attached only when resolution produced a
// real ICO; a PNG fallback cannot be embedded in a resource section.
func BuildVersionInfo(spec BundleSpec, ver Version) *goversioninfo.VersionInfo {
	vi := &goversioninfo.VersionInfo{}

	fv := goversioninfo.FileVersion{
		Major: ver.Major,
		Minor: ver.Minor,
		Patch: ver.Patch,
		Build: ver.Build,
	}
	vi.FixedFileInfo.FileVersion = fv
	vi.FixedFileInfo.ProductVersion = fv
	vi.FixedFileInfo.FileFlagsMask = "3f"
	vi.FixedFileInfo.FileFlags = "00"
	vi.FixedFileInfo.FileOS = "040004"
	vi.FixedFileInfo.FileType = "01"

	vi.StringFileInfo.ProductName = spec.Name
	vi.StringFileInfo.InternalName = spec.Name
	vi.StringFileInfo.OriginalFilename = spec.Name + ".exe"
	vi.StringFileInfo.FileDescription = "AutoWake"
	vi.StringFileInfo.FileVersion = ver.Raw
	vi.StringFileInfo.ProductVersion = ver.Raw

	vi.VarFileInfo.Translation = goversioninfo.Translation{
		LangID:    goversioninfo.LngUSEnglish,
		CharsetID: goversioninfo.CsUnicode,
	}

	if spec.IconOutcome == IconExisting || spec.IconOutcome == IconConverted {
		vi.IconPath = spec.Icon
	}

	return vi
}

// MergeVersionInfoJSON overlays an optional versioninfo.json from the project
// root onto vi. A missing file is not an error.
func MergeVersionInfoJSON(vi *goversioninfo.VersionInfo, root string) error {
	data, err := os.ReadFile(filepath.Join(root, VersionInfoName))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return vi.ParseJSON(data)
}

// WriteSyso renders vi into a linkable .syso resource object for arch
// ("amd64", "arm64", "386").
func WriteSyso(vi *goversioninfo.VersionInfo, path, arch string) error {
	vi.Build()
	vi.Walk()
	return vi.WriteSyso(path, arch)
}
