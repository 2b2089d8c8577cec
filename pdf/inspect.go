package pdf

import "github.com/allkit/docapi/shell"

// Tools lists the external engines of the driver for inspection
func Tools(cmd Command) []shell.Tool {
	return []shell.Tool{
		{Name: "pdftoppm", Path: cmd.GetToolPath(ToolPdftoppm), VersionFlag: "-v", ConfigKey: "tools.pdftoppm"},
		{Name: "pdftotext", Path: cmd.GetToolPath(ToolPdftotext), VersionFlag: "-v", ConfigKey: "tools.pdftotext"},
		{Name: "mutool", Path: cmd.GetToolPath(ToolMutool), VersionFlag: "-v", ConfigKey: "tools.mutool"},
		{Name: "ghostscript", Path: cmd.GetToolPath(ToolGhostscript), VersionFlag: "--version", ConfigKey: "tools.ghostscript"},
	}
}
