package cli

import (
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProgram(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.js")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestCheckPassingProgram(t *testing.T) {
	isolate(t)
	path := writeProgram(t, "```javascript\n"+`
const box = new THREE.Mesh(new THREE.BoxGeometry(3, 3, 3), new THREE.MeshBasicMaterial());
scene.add(box);
return { update(t) { box.rotation.x = t; } };
`+"\n```")
	out, err := execute(t, "check", path, "--frames", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "prog: ok")
	assert.Contains(t, out, "frames 5  animated true  resources 2")
}

func TestCheckCompileFailure(t *testing.T) {
	isolate(t)
	path := writeProgram(t, "scene.add(new THREE.BoxGeometri());")
	out, err := execute(t, "check", path, "--frames", "2")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "FAILED")
	assert.Contains(t, out, "did you mean THREE.BoxGeometry?")
}

func TestCheckRuntimeFailureJSON(t *testing.T) {
	isolate(t)
	path := writeProgram(t, `return { update(t) { if (t > 0) throw new Error("late"); } };`)
	out, err := execute(t, "check", path, "--frames", "4", "--json")
	require.Error(t, err)

	var r CheckReport
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.True(t, r.Compiled)
	assert.Equal(t, "Error: late", r.RuntimeError)
	assert.False(t, r.OK())
}

func TestCheckDemoWritesPNG(t *testing.T) {
	isolate(t)
	pngPath := filepath.Join(t.TempDir(), "galaxy.png")
	out, err := execute(t, "check", "--demo", "galaxy", "--frames", "3", "--png", pngPath, "--scale", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "galaxy: ok")

	f, err := os.Open(pngPath)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())
	assert.Equal(t, 96, img.Bounds().Dy())
}

func TestCheckArguments(t *testing.T) {
	isolate(t)
	_, err := execute(t, "check")
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = execute(t, "check", "--demo", "nope")
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = execute(t, "check", filepath.Join(t.TempDir(), "missing.js"))
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
