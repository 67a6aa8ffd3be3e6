package mcp

type formatArgs struct {
	JSON    string `json:"json" jsonschema:"the JSON document to reformat"`
	Compact bool   `json:"compact,omitempty" jsonschema:"emit a single line instead of indented output"`
}

type validateArgs struct {
	JSON string `json:"json" jsonschema:"the JSON document to check"`
}

type queryArgs struct {
	JSON string `json:"json" jsonschema:"the JSON document to search"`
	Path string `json:"path" jsonschema:"a gjson path such as users.#.name"`
}

type messageOutput struct {
	Message string `json:"message"`
}

type validateOutput struct {
	Valid bool `json:"valid"`
	Bytes int  `json:"bytes"`
}

type queryOutput struct {
	Found bool   `json:"found"`
	Value string `json:"value,omitempty"`
}
