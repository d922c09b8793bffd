package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"axiom/engine/port"
	"axiom/engine/quarkgl"
	"axiom/engine/script"
)

func TestBundledDemosRun(t *testing.T) {
	g := NewOfflineGenerator()
	for _, name := range g.Names() {
		t.Run(name, func(t *testing.T) {
			demo, ok := g.Demo(name)
			require.True(t, ok)
			require.NotEmpty(t, demo.Explanation)

			cam := quarkgl.NewPerspectiveCamera(60, 4.0/3, 0.1, 1000)
			p := port.New(quarkgl.NewGroup(), cam, quarkgl.NewRenderer(80, 60, true))
			c := script.NewCompiler(p, script.WithBudget(script.Budget{}))

			m, err := c.Compile(script.Program{ID: name, Source: demo.Code})
			require.NoError(t, err)
			assert.NotEmpty(t, p.Root.Children)
			assert.True(t, m.Animated())

			for i := 1; i <= 3; i++ {
				require.NoError(t, m.Update(float64(i)/60, 1.0/60))
			}
			r := quarkgl.NewRenderer(80, 60, true)
			r.Render(quarkgl.NewRGBATarget(80, 60), p.Root, cam)
			require.NoError(t, m.Cleanup())
		})
	}
}
