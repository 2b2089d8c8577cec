package pdf

import "github.com/allkit/docapi/shell"

// NewMacOSDriver creates a new macOS driver with optional custom tool paths
func NewMacOSDriver(runner *shell.Runner, customPaths ToolPaths) Command {
	return newDriver(runner, ToolPaths{
		ToolPdftoppm:    "pdftoppm",  // brew install poppler
		ToolPdftotext:   "pdftotext", // brew install poppler
		ToolMutool:      "mutool",    // brew install mupdf-tools
		ToolGhostscript: "gs",        // brew install ghostscript
	}, customPaths)
}
