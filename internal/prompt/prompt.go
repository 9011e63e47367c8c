package prompt

import (
	"bytes"
	"strings"

	"readmegen/internal/scan"
)

// Prompts holds the two section prompts rendered from one Summary.
type Prompts struct {
	Overview     string
	Installation string
}

// Compose renders both prompts from sum. It has no failure mode.
// Listings are passed through verbatim; nothing is escaped or truncated.
func Compose(sum scan.Summary) Prompts {
	manifests := strings.Join(sum.ManifestNames(), ", ")
	configs := strings.Join(sum.ConfigFileNames, ", ")
	return Prompts{
		Overview:     overview(strings.Join(sum.FilePaths, ", "), configs, manifests),
		Installation: installation(strings.Join(sum.FilePaths, "\n"), configs, manifests),
	}
}

func overview(files, configs, manifests string) string {
	var buf bytes.Buffer
	buf.WriteString("Create a project overview based on repository structure:\n")
	buf.WriteString("- Main files: " + files + "\n")
	buf.WriteString("- Configuration files: " + configs + "\n")
	buf.WriteString("- Dependency managers: " + manifests + "\n")
	buf.WriteString("Write a 2-paragraph description focusing on project purpose and requirements.")
	return buf.String()
}

func installation(files, configs, manifests string) string {
	var buf bytes.Buffer
	buf.WriteString("Generate detailed installation instructions including:\n")
	buf.WriteString("1. Cloning the repository\n")
	buf.WriteString("2. Dependency installation\n")
	buf.WriteString("3. Configuration setup\n")
	buf.WriteString("4. Running the project locally\n\n")
	buf.WriteString("Base this on:\n")
	buf.WriteString("- Dependency files: " + manifests + "\n")
	buf.WriteString("- Config files: " + configs + "\n")
	buf.WriteString("- Project structure: " + files + "\n\n")
	buf.WriteString("Provide exact terminal commands for Linux/macOS/Windows.")
	return buf.String()
}
