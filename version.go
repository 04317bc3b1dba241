package tandem

import _ "embed"

// Version is the release version of the tandem module and CLI.
//
//go:embed VERSION
var Version string
