package htmlclean

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func contains(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}

func mustClean(t *testing.T, fragment string) string {
	t.Helper()
	out, err := Clean(fragment, &DefaultConfig)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	return out
}

func TestClean_RemovesScriptStyle(t *testing.T) {
	out := mustClean(t, `
    <input id="user" name="user">
    <script>alert("hi")</script>
    <style>.x {}</style>`)

	if contains(out, "<script") || contains(out, "<style") {
		t.Errorf("script/style tags must be removed, output: %s", out)
	}
	if !contains(out, `id="user"`) {
		t.Errorf("expected to keep inputs, output: %s", out)
	}
}

func TestClean_RemovesComments(t *testing.T) {
	out := mustClean(t, `<!-- comment --><input id="pw" type="password">`)

	if contains(out, "comment") {
		t.Errorf("HTML comments must be removed")
	}
	if !contains(out, `type="password"`) {
		t.Errorf("type must be kept")
	}
}

func TestClean_KeepsFieldIdentifyingAttributes(t *testing.T) {
	out := mustClean(t, `<input class="form_input" placeholder="Username" id="user-name" name="user-name" data-test="username" aria-label="User name" data-x="1" aria-hidden="true" onclick="go()">`)

	for _, want := range []string{`class="form_input"`, `placeholder="Username"`, `name="user-name"`, `data-test="username"`, `aria-label="User name"`} {
		if !contains(out, want) {
			t.Errorf("%s must be kept, output: %s", want, out)
		}
	}
	for _, unwanted := range []string{"data-x", "aria-hidden", "onclick"} {
		if contains(out, unwanted) {
			t.Errorf("%s must be removed, output: %s", unwanted, out)
		}
	}
}

func TestClean_RemovesInlineStyles(t *testing.T) {
	out := mustClean(t, `<div style="color:red" class="ok">Hi</div>`)

	if contains(out, "style=") {
		t.Errorf("style attribute must be removed")
	}
	if !contains(out, `class="ok"`) {
		t.Errorf("class must remain")
	}
}

func TestClean_KeepsButtonText(t *testing.T) {
	out := mustClean(t, `<div>
		<button type="submit">Go</button>
	</div>`)

	if !contains(out, `<button type="submit">Go</button>`) {
		t.Errorf("button must survive intact, output: %s", out)
	}
}

func TestClean_Truncation(t *testing.T) {
	var big strings.Builder
	for i := 0; i < 5000; i++ {
		big.WriteString("<div>test</div>")
	}

	out := mustClean(t, big.String())

	if len(out) > DefaultConfig.MaxOutputSize+len(truncationNotice) {
		t.Errorf("output must be truncated, got %d bytes", len(out))
	}
	if !contains(out, "truncated") {
		t.Errorf("truncation notice must appear")
	}
}

func TestClean_NilConfigUsesDefault(t *testing.T) {
	out, err := Clean(`<input id="a"><script>x</script>`, nil)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if contains(out, "<script") {
		t.Errorf("default config must apply")
	}
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	out := truncate("éé", 3)

	if out != "é"+truncationNotice {
		t.Errorf("unexpected cut: %q", out)
	}
	if !utf8.ValidString(out) {
		t.Errorf("output must stay valid UTF-8")
	}
}
