package pdf

import "github.com/allkit/docapi/shell"

// NewWindowsDriver creates a new Windows driver with optional custom tool paths.
// The poppler and mupdf binaries are expected on PATH.
func NewWindowsDriver(runner *shell.Runner, customPaths ToolPaths) Command {
	return newDriver(runner, ToolPaths{
		ToolPdftoppm:    "pdftoppm.exe",
		ToolPdftotext:   "pdftotext.exe",
		ToolMutool:      "mutool.exe",
		ToolGhostscript: "gswin64c.exe",
	}, customPaths)
}
