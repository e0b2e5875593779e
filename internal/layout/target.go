package layout

// Target describes the ABI target triple and its pointer properties.
type Target struct {
	Triple   string // e.g. "x86_64-apple-macosx"
	PtrSize  int    // bytes
	PtrAlign int    // bytes

	// ObjCUseStret selects the _stret messenger family for indirect results.
	// Targets whose ABI folds struct returns into the ordinary messenger
	// (arm64) leave it false.
	ObjCUseStret bool
}

func X86_64Darwin() Target {
	return Target{
		Triple:       "x86_64-apple-macosx",
		PtrSize:      8,
		PtrAlign:     8,
		ObjCUseStret: true,
	}
}

func ARM64Darwin() Target {
	return Target{
		Triple:       "arm64-apple-macosx",
		PtrSize:      8,
		PtrAlign:     8,
		ObjCUseStret: false,
	}
}
