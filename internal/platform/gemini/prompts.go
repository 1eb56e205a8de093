package gemini

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/phrazzld/taskr-api/internal/domain"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

const (
	recommendFieldsTemplate = "recommend_fields.tmpl"
	suggestTaskTemplate     = "suggest_task.tmpl"
)

// recommendData is the input of the field recommendation prompt.
type recommendData struct {
	Title       string
	Description string
}

// suggestData is the input of the next-task prompt.
type suggestData struct {
	Tasks []*domain.Task
}

func loadTemplates() (*template.Template, error) {
	tmpl, err := template.ParseFS(promptFS, "prompts/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt templates: %w", err)
	}
	return tmpl, nil
}

func renderPrompt(tmpl *template.Template, name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template %s: %w", name, err)
	}
	return buf.String(), nil
}
