package main

// This file contains the go:generate command for rebuilding the Windows
// resource object with the application icon and version metadata.
// Run `go generate` in this directory to regenerate it.

//go:generate go run github.com/autowake/awbundle/cmd/awbundle -root ../.. -out ../../build -syso ../../build/icon_windows_amd64.syso
