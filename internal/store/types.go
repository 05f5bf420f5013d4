package store

// Build is one recorded `uppmon build` run.
type Build struct {
	ID           string          `json:"id"`
	Seq          int64           `json:"seq"`
	DocumentHash string          `json:"document_hash"`
	SpecDir      string          `json:"spec_dir"`
	Base         int             `json:"base"`
	XML          string          `json:"xml,omitempty"`
	ToolVersion  string          `json:"tool_version"`
	IRVersion    string          `json:"ir_version"`
	Templates    []BuildTemplate `json:"templates"`
}

// BuildTemplate describes one template of a build.
type BuildTemplate struct {
	Name         string `json:"name"`
	Kind         string `json:"kind"`
	Base         int    `json:"base"`
	Size         int    `json:"size"`
	TemplateHash string `json:"template_hash"`
	SpecJSON     string `json:"spec_json"`
}
