package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	ShowNotes bool
	ShowFixes bool
	// Max truncates the printed list; 0 prints everything.
	Max int
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	// IncludePositions adds 1-based line/col next to byte offsets.
	IncludePositions bool
	PathMode         PathMode
	IncludeNotes     bool
	IncludeFixes     bool
	// IncludePreviews adds before/after line blocks to each fix edit.
	IncludePreviews bool
	// Max truncates the serialized list; 0 keeps everything.
	Max int
}
