package prompts

import (
	_ "embed"
)

//go:embed trigger.txt
var TriggerPrompt string

//go:embed fieldmap.txt
var FieldMappingPrompt string
