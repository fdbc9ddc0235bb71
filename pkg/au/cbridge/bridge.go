//go:build darwin

// Package cbridge compiles the ObjC side of the AUv3 bridge exactly
// once. Importing it from an audio unit extension's main package links
// the AUAudioUnit subclass into the bundle.
package cbridge

/*
#cgo CFLAGS: -I${SRCDIR}/../../../include -fobjc-arc
#cgo LDFLAGS: -framework Foundation -framework AVFoundation -framework AudioToolbox -framework CoreMIDI
*/
import "C"
