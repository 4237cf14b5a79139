package listing

import "errors"

// Defaults for the forc toolchain output formats
const (
	// DefaultPrimarySourceIndex is the symbol table path index of the user's
	// own source file. Other indices belong to the standard library or deps.
	DefaultPrimarySourceIndex = 1

	// DefaultIRMarker precedes the final pass in `forc build --ir final` dumps
	DefaultIRMarker = "// IR: Final"

	// DefaultAsmStartMarker opens the section of interest in `forc build --asm all`
	DefaultAsmStartMarker = ";; ASM: Virtual abstract program"

	// DefaultAsmEndMarker is printed by forc once the build has completed
	DefaultAsmEndMarker = "Finished"

	// DefaultFailureText is the sentinel line shown when there is nothing to render
	DefaultFailureText = "<Compilation failed>"
)

// DefaultIRUnitKinds are the top-level program kinds that open an IR block.
var DefaultIRUnitKinds = []string{"script", "library", "contract", "predicate"}

var (
	ErrStartMarkerNotFound  = errors.New("start marker not found")
	ErrEndMarkerNotFound    = errors.New("end marker not found after start marker")
	ErrMalformedSymbolTable = errors.New("malformed symbol table")
	ErrUnknownKind          = errors.New("unknown output kind")
)
