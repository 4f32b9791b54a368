package frontend

var (
	pythonExtensions     = []string{".py"}
	javaExtensions       = []string{".java"}
	javaScriptExtensions = []string{".js", ".jsx", ".mjs", ".cjs"}
	typeScriptExtensions = []string{".ts", ".mts", ".cts"}
	tsxExtensions        = []string{".tsx"}
	cSharpExtensions     = []string{".cs"}
	gherkinExtensions    = []string{".feature"}
)
