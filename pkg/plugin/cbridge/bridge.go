// Package cbridge compiles the C side of the VST3 bridge exactly once.
// Importing it from a plugin's main package links the factory, the
// combined component vtables, and the module entry points into the
// bundle. No other package may include the .c files, or the symbols
// would be duplicated.
package cbridge

/*
#cgo CFLAGS: -I${SRCDIR}/../../../include
#include "../../../bridge/component.c"
#include "../../../bridge/factory.c"
*/
import "C"
