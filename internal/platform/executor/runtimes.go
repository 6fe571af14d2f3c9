package executor

import "strings"

type pistonRuntime struct {
	name     string
	fileName string
}

var pistonRuntimes = map[string]pistonRuntime{
	"javascript": {name: "javascript", fileName: "main.js"},
	"python":     {name: "python", fileName: "main.py"},
	"java":       {name: "java", fileName: "Main.java"},
	"cpp":        {name: "c++", fileName: "main.cpp"},
	"c":          {name: "c", fileName: "main.c"},
	"go":         {name: "go", fileName: "main.go"},
}

// runtimeFor maps a language id to its Piston name and source file.
// Unknown ids are passed through so Piston can resolve its own aliases.
func runtimeFor(language string) pistonRuntime {
	key := strings.ToLower(strings.TrimSpace(language))
	if rt, ok := pistonRuntimes[key]; ok {
		return rt
	}
	return pistonRuntime{name: key, fileName: "main"}
}
