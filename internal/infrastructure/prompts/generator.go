package prompts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"login-agent/internal/domain/entity"
)

type TriggerPromptData struct {
	Candidates string
}

type FieldMappingPromptData struct {
	Keys     []string
	KeysJSON string
	FormHTML string
}

var funcs = template.FuncMap{
	"join": strings.Join,
}

// GenerateTriggerPrompt renders baseTemplate with the candidates
// serialized as a JSON array.
func GenerateTriggerPrompt(baseTemplate string, candidates []entity.Candidate) (string, error) {
	if candidates == nil {
		candidates = []entity.Candidate{}
	}

	var payload bytes.Buffer
	enc := json.NewEncoder(&payload)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(candidates); err != nil {
		return "", fmt.Errorf("marshal candidates: %w", err)
	}
	return render("trigger", baseTemplate, TriggerPromptData{Candidates: strings.TrimSpace(payload.String())})
}

// GenerateFieldMappingPrompt renders baseTemplate with the user data keys
// and form markup. Values never leave the process.
func GenerateFieldMappingPrompt(baseTemplate string, keys []string, formHTML string) (string, error) {
	if keys == nil {
		keys = []string{}
	}
	payload, err := json.Marshal(keys)
	if err != nil {
		return "", fmt.Errorf("marshal keys: %w", err)
	}
	return render("fieldmap", baseTemplate, FieldMappingPromptData{
		Keys:     keys,
		KeysJSON: string(payload),
		FormHTML: formHTML,
	})
}

func render(name, baseTemplate string, data any) (string, error) {
	tmpl, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(baseTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
