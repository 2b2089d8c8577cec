package shell

import (
	"os/exec"
	"strings"
)

// Tool describes an external engine to inspect
type Tool struct {
	Name        string // Tool name, e.g. "soffice"
	Path        string // Configured executable
	VersionFlag string // Flag printing the version, e.g. "--version"
	ConfigKey   string // Configuration key overriding the path
}

// ToolStatus represents the availability status of an external engine
type ToolStatus struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
	Path      string `json:"path,omitempty"`
	Version   string `json:"version,omitempty"`
	ConfigKey string `json:"config_key,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Inspect checks the availability and version of the given engines.
// It never fails; problems are reported in ToolStatus.Error.
func Inspect(tools ...Tool) map[string]*ToolStatus {
	result := make(map[string]*ToolStatus, len(tools))
	for _, tool := range tools {
		result[tool.Name] = inspectTool(tool)
	}
	return result
}

func inspectTool(tool Tool) *ToolStatus {
	status := &ToolStatus{Name: tool.Name, ConfigKey: tool.ConfigKey}

	path := tool.Path
	if path == "" {
		path = tool.Name
	}

	resolved, err := exec.LookPath(path)
	if err != nil {
		status.Error = "not found in PATH"
		if path != tool.Name {
			status.Error = path + ": not found or not executable"
		}
		return status
	}

	status.Path = resolved
	status.Available = true
	if tool.VersionFlag == "" {
		return status
	}

	// Some tools print the version on stderr (pdftoppm, pdftotext)
	output, err := exec.Command(resolved, tool.VersionFlag).CombinedOutput()
	if err == nil || len(output) > 0 {
		lines := strings.Split(strings.TrimSpace(string(output)), "\n")
		status.Version = strings.TrimSpace(lines[0])
	}
	return status
}
