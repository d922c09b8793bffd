package llm

import (
	"context"
	"embed"
	"hash/fnv"
	"path"
	"sort"
	"strings"
)

//go:embed demos/*.js
var demoFS embed.FS

// demoKeywords routes prompts to bundled demos.
var demoKeywords = map[string][]string{
	"blackhole": {"black hole", "blackhole", "accretion", "event horizon", "quasar", "jet"},
	"galaxy":    {"galaxy", "spiral", "milky", "nebula", "stars"},
	"solar":     {"solar", "planet", "orbit", "sun", "earth", "mars", "kepler"},
	"attractor": {"attractor", "lorenz", "chaos", "strange", "butterfly"},
	"atom":      {"atom", "electron", "nucleus", "proton", "quantum", "bohr"},
}

// OfflineGenerator answers from the bundled demo programs without a network.
type OfflineGenerator struct {
	demos map[string]Result
	names []string
}

func NewOfflineGenerator() *OfflineGenerator {
	g := &OfflineGenerator{demos: make(map[string]Result)}
	entries, _ := demoFS.ReadDir("demos")
	for _, e := range entries {
		data, err := demoFS.ReadFile(path.Join("demos", e.Name()))
		if err != nil {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".js")
		g.demos[name] = Result{Code: Sanitize(string(data)), Explanation: headline(string(data))}
		g.names = append(g.names, name)
	}
	sort.Strings(g.names)
	return g
}

// Names lists the bundled demos.
func (g *OfflineGenerator) Names() []string { return append([]string(nil), g.names...) }

// Demo returns a bundled demo by name.
func (g *OfflineGenerator) Demo(name string) (Result, bool) {
	r, ok := g.demos[name]
	return r, ok
}

// Generate picks the demo whose keywords match the prompt. Prompts that
// match nothing map to a demo by hash, so the same prompt always gets the
// same scene.
func (g *OfflineGenerator) Generate(ctx context.Context, prompt string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, generationError("%v", err)
	}
	if len(g.names) == 0 {
		return Result{}, generationError("offline: no demos bundled")
	}
	p := strings.ToLower(prompt)
	for _, name := range g.names {
		for _, kw := range demoKeywords[name] {
			if strings.Contains(p, kw) {
				return g.demos[name], nil
			}
		}
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(p))
	return g.demos[g.names[int(h.Sum32()%uint32(len(g.names)))]], nil
}

// headline returns the text of a leading // comment.
func headline(src string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(src), "\n")
	if !strings.HasPrefix(line, "//") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(line, "//"))
}
