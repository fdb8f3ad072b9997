package engine

import "context"

// Origin classifies where compiler input comes from.
type Origin int

const (
	// OriginUnset means no origin was chosen.
	OriginUnset Origin = iota
	// OriginFile means the source payload is a path to read.
	OriginFile
	// OriginData means the source payload is the style sheet itself.
	OriginData
	// OriginFolder is reserved; no backend compiles folders.
	OriginFolder
)

func (o Origin) String() string {
	switch o {
	case OriginFile:
		return "file"
	case OriginData:
		return "data"
	case OriginFolder:
		return "folder"
	default:
		return "unset"
	}
}

// OutputStyle is one of the four CSS formatting modes.
type OutputStyle int

const (
	StyleNested OutputStyle = iota
	StyleExpanded
	StyleCompact
	StyleCompressed
)

var styleNames = [...]string{"nested", "expanded", "compact", "compressed"}

func (s OutputStyle) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return "unknown"
	}
	return styleNames[s]
}

// OutputStyles returns every style in declaration order.
func OutputStyles() []OutputStyle {
	return []OutputStyle{StyleNested, StyleExpanded, StyleCompact, StyleCompressed}
}

// Engine creates the native objects used for a single compilation.
type Engine interface {
	// Version returns the version string of the linked compiler library.
	Version() string

	// NewOptions allocates an empty options object.
	NewOptions() (Options, error)

	// NewFileContext makes a context that compiles the file at path.
	NewFileContext(path string) (Context, error)

	// CopyString duplicates s into an engine-allocated buffer.
	CopyString(s string) (Buffer, error)

	// NewDataContext makes a context that compiles the contents of src.
	// The buffer stays owned by the caller; engines that need to keep the
	// source make their own copy.
	NewDataContext(src Buffer) (Context, error)
}

// Options holds compiler configuration until attached to a Context.
type Options interface {
	SetPrecision(n int)
	SetOutputStyle(s OutputStyle)
	SetSourceComments(b bool)
	SetSourceMapEmbed(b bool)
	SetSourceMapContents(b bool)
	SetOmitSourceMapURL(b bool)
	SetIsIndentedSyntaxSrc(b bool)
	SetIndent(s string)
	SetLinefeed(s string)
	SetInputPath(s string)
	SetOutputPath(s string)
	SetIncludePath(s string)
	SetSourceMapFile(s string)

	// Release frees an options object that was never attached.
	Release()
}

// Context is a single-use compilation.
type Context interface {
	// SetOptions attaches opts. The context owns opts from here on.
	SetOptions(opts Options)

	// Compile runs the compiler and returns its status code.
	Compile(ctx context.Context) int

	ErrorStatus() int
	ErrorMessage() string
	ErrorLine() int
	ErrorColumn() int
	OutputString() string
	SourceMapString() string

	// SourceMapFile returns the source map file option in effect.
	SourceMapFile() string

	// Delete releases the context and any options attached to it.
	Delete()
}

// Buffer is an engine-allocated copy of a source string.
type Buffer interface {
	Bytes() []byte
	Free()
}
