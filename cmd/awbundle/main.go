// Package main prepares the AutoWake bundle. It's the CLI entrypoint.
package main

import (
	"flag"
	"fmt"
	"os"

	log "github.com/schollz/logger"

	"github.com/autowake/awbundle"
)

// Build information set by goreleaser
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Handle version flag before flag parsing processes it
	for _, arg := range os.Args {
		if arg == "-V" {
			fmt.Printf("awbundle version %s, commit %s, built at %s\n", version, commit, date)
			os.Exit(0)
		}
	}

	variant := flag.String("variant", "full", "bundle variant to prepare (minimal or full)")
	root := flag.String("root", "", "project root (default: current directory)")
	out := flag.String("out", "build", "build directory for staged files and the manifest")
	syso := flag.String("syso", "", "also write a Windows resource object to this path")
	arch := flag.String("arch", "amd64", "target architecture for the resource object")
	appVersion := flag.String("app-version", "", "application version (default: from git tags)")
	debug := flag.Bool("debug", false, "verbose logging")
	flag.Parse()

	if *debug {
		log.SetLevel("debug")
	} else {
		log.SetLevel("info")
	}

	if err := run(*variant, *root, *out, *syso, *arch, *appVersion); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func run(variant, root, out, syso, arch, appVersion string) error {
	// The only place where the project root falls back to ambient process
	// state; everything below takes it as an explicit parameter.
	if root == "" {
		var err error
		root, err = os.Getwd()
		if err != nil {
			return err
		}
	}

	var spec awbundle.BundleSpec
	switch variant {
	case "minimal":
		spec = awbundle.MinimalSpec(root)
	case "full":
		spec = awbundle.FullSpec(root)
	default:
		return fmt.Errorf("unknown variant %q (want minimal or full)", variant)
	}

	switch spec.IconOutcome {
	case awbundle.IconExisting:
		log.Debugf("using existing icon %s", spec.Icon)
	case awbundle.IconConverted:
		log.Infof("converted icon to %s", spec.Icon)
	case awbundle.IconFallback:
		log.Warnf("icon conversion degraded, passing %s through", spec.Icon)
	case awbundle.IconAbsent:
		log.Debug("no icon will be embedded")
	}

	if err := spec.Validate(); err != nil {
		return err
	}
	if err := awbundle.Stage(spec, out); err != nil {
		return err
	}
	if err := awbundle.WriteManifest(spec, out); err != nil {
		return err
	}
	log.Infof("staged %s (%d assets) into %s", spec.Name, len(spec.Assets), out)

	if syso != "" {
		ver := awbundle.AppVersion(root)
		if appVersion != "" {
			ver = awbundle.ParseVersion(appVersion)
		}
		vi := awbundle.BuildVersionInfo(spec, ver)
		if err := awbundle.MergeVersionInfoJSON(vi, root); err != nil {
			return err
		}
		if err := awbundle.WriteSyso(vi, syso, arch); err != nil {
			return err
		}
		log.Infof("wrote resource object %s (version %s)", syso, ver.Raw)
	}

	return nil
}
