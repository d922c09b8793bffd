package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rawReply = "```javascript\n" +
	"const scene = new THREE.Scene();\n" +
	"const camera = new THREE.PerspectiveCamera(75, window.innerWidth / window.innerHeight, 0.1, 1000);\n" +
	"let renderer = new THREE.WebGLRenderer({ antialias: true });\n" +
	"document.body.appendChild(renderer.domElement);\n" +
	"const cube = new THREE.Mesh(new THREE.BoxGeometry(), new THREE.MeshBasicMaterial());\n" +
	"scene.add(cube);\n" +
	"return { update: (t) => { cube.rotation.y = t; } };\n" +
	"```\n"

func TestSanitizeGolden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "sanitize", []byte(Sanitize(rawReply)))
}

func TestSanitizeKeepsOtherDeclarations(t *testing.T) {
	in := "const sceneGroup = new THREE.Group();\nscene.add(sceneGroup);\n"
	assert.Equal(t, in, Sanitize(in))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		code    string
		explain string
		wantErr bool
	}{
		{
			name:    "json object",
			reply:   `{"code": "scene.add(new THREE.Group());", "explanation": " A group. "}`,
			code:    "scene.add(new THREE.Group());\n",
			explain: "A group.",
		},
		{
			name:    "fenced json with chatter",
			reply:   "Here you go:\n```json\n{\"code\": \"let a = 1;\", \"explanation\": \"x\"}\n```",
			code:    "let a = 1;\n",
			explain: "x",
		},
		{
			name:  "bare code",
			reply: "```js\nscene.add(new THREE.Mesh());\n```",
			code:  "scene.add(new THREE.Mesh());\n",
		},
		{name: "empty", reply: "  \n", wantErr: true},
		{name: "object without code", reply: `{"code": "", "explanation": "nothing"}`, wantErr: true},
		{name: "broken object", reply: `{"code": "abc`, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode(tc.reply)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrGeneration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.code, got.Code)
			assert.Equal(t, tc.explain, got.Explanation)
		})
	}
}

func TestOfflineGeneratorRoutesByKeyword(t *testing.T) {
	g := NewOfflineGenerator()
	require.Equal(t, []string{"atom", "attractor", "blackhole", "galaxy", "solar"}, g.Names())

	ctx := context.Background()
	res, err := g.Generate(ctx, "Supermassive Black Hole")
	require.NoError(t, err)
	bh, _ := g.Demo("blackhole")
	assert.Equal(t, bh, res)
	assert.Contains(t, res.Explanation, "black hole")

	res, err = g.Generate(ctx, "the Lorenz system")
	require.NoError(t, err)
	att, _ := g.Demo("attractor")
	assert.Equal(t, att.Code, res.Code)
}

func TestOfflineGeneratorIsDeterministic(t *testing.T) {
	g := NewOfflineGenerator()
	a, err := g.Generate(context.Background(), "something unrelated")
	require.NoError(t, err)
	b, err := g.Generate(context.Background(), "something unrelated")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestOfflineGeneratorHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewOfflineGenerator().Generate(ctx, "galaxy")
	assert.ErrorIs(t, err, ErrGeneration)
}

func TestGeneratorFunc(t *testing.T) {
	var g Generator = GeneratorFunc(func(context.Context, string) (Result, error) {
		return Result{}, errors.New("nope")
	})
	_, err := g.Generate(context.Background(), "x")
	assert.EqualError(t, err, "nope")
}
