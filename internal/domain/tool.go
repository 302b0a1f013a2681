package domain

// ToolInfo describes a registered tool for listings served outside the MCP
// session itself (the admin endpoint). The full parameter schema lives with
// the MCP server; this is the human-facing summary.
type ToolInfo struct {
	// Name is the tool's unique MCP name, e.g. "xano_list_databases".
	Name string `json:"name"`

	// Description is the natural-language explanation shown to agents.
	Description string `json:"description"`
}
