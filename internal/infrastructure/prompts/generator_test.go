package prompts

import (
	"strings"
	"testing"

	"login-agent/internal/domain/entity"
)

func TestGenerateTriggerPrompt(t *testing.T) {
	candidates := []entity.Candidate{
		{Selector: "a.nav-login", Text: "log in", AriaLabel: ""},
		{Selector: "button#account", Text: "", AriaLabel: "my account"},
	}

	result, err := GenerateTriggerPrompt(TriggerPrompt, candidates)
	if err != nil {
		t.Fatalf("GenerateTriggerPrompt failed: %v", err)
	}

	if !strings.Contains(result, "pick the best selector") {
		t.Error("Result should contain the instruction")
	}
	if !strings.Contains(result, `"selector": "a.nav-login"`) {
		t.Error("Result should contain serialized candidates")
	}
	if !strings.Contains(result, `"aria_label": "my account"`) {
		t.Error("Result should contain aria labels")
	}
}

func TestGenerateFieldMappingPrompt(t *testing.T) {
	form := `<input id="login-user"><input type="password" id="pw">`

	result, err := GenerateFieldMappingPrompt(FieldMappingPrompt, []string{"username", "password"}, form)
	if err != nil {
		t.Fatalf("GenerateFieldMappingPrompt failed: %v", err)
	}

	if !strings.Contains(result, "(username, password)") {
		t.Error("Result should list the keys inline")
	}
	if !strings.Contains(result, `["username","password"]`) {
		t.Error("Result should contain the keys as JSON")
	}
	if !strings.Contains(result, form) {
		t.Error("Result should contain the form markup")
	}
	if !strings.Contains(result, "null") {
		t.Error("Result should ask for null on missing fields")
	}
}

func TestGenerateFieldMappingPromptNilKeys(t *testing.T) {
	result, err := GenerateFieldMappingPrompt(FieldMappingPrompt, nil, "<input>")
	if err != nil {
		t.Fatalf("GenerateFieldMappingPrompt failed: %v", err)
	}
	if !strings.Contains(result, "User data keys: []") {
		t.Errorf("Result should render an empty key list, got:\n%s", result)
	}
}

func TestGenerateInvalidTemplate(t *testing.T) {
	_, err := GenerateTriggerPrompt(`Test {{.InvalidField}}`, nil)
	if err == nil {
		t.Error("Expected error for invalid template, got nil")
	}
}
