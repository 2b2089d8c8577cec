package pdf

import "github.com/allkit/docapi/shell"

// NewLinuxDriver creates a new Linux driver with optional custom tool paths
func NewLinuxDriver(runner *shell.Runner, customPaths ToolPaths) Command {
	return newDriver(runner, ToolPaths{
		ToolPdftoppm:    "pdftoppm",  // apt install poppler-utils
		ToolPdftotext:   "pdftotext", // apt install poppler-utils
		ToolMutool:      "mutool",    // apt install mupdf-tools
		ToolGhostscript: "gs",        // apt install ghostscript
	}, customPaths)
}
