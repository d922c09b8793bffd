package lifecycle

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"axiom/engine/guard"
	"axiom/engine/journal"
	"axiom/engine/port"
	"axiom/engine/quarkgl"
	"axiom/engine/script"
)

func newPort() *port.ScenePort {
	cam := quarkgl.NewPerspectiveCamera(60, 1, 0.1, 100)
	cam.Position.Set(0, 0, 10)
	root := quarkgl.NewGroup()
	root.Name = "simulation"
	quarkgl.NewScene().Add(root)
	return port.New(root, cam, quarkgl.NewRenderer(16, 16, true))
}

func newManager(t *testing.T, opts ...Option) (*Manager, *port.ScenePort, *journal.Ring) {
	t.Helper()
	p := newPort()
	ring := journal.NewRing(32)
	opts = append([]Option{WithJournal(journal.New(ring))}, opts...)
	return New(script.NewCompiler(p), p, opts...), p, ring
}

func texts(r *journal.Ring) []string {
	var out []string
	for _, ev := range r.Snapshot() {
		out = append(out, ev.Text)
	}
	return out
}

const meshAndLight = `
const mesh = new THREE.Mesh(new THREE.BoxGeometry(1, 1, 1), new THREE.MeshStandardMaterial({ color: 0xff0000 }));
scene.add(mesh);
scene.add(new THREE.DirectionalLight(0xffffff, 1));
return { update(t) { mesh.rotation.y = t; } };`

const twoMeshes = `
for (let i = 0; i < 2; i++) {
  const m = new THREE.Mesh(new THREE.SphereGeometry(0.5, 8, 6), new THREE.MeshBasicMaterial());
  m.position.x = i * 2;
  scene.add(m);
}`

func TestSwapReplacesPreviousScene(t *testing.T) {
	m, p, _ := newManager(t)

	res := m.Swap(script.Program{ID: "p1", Source: meshAndLight})
	require.NoError(t, res.Err)
	require.Len(t, p.Root.Children, 2)
	oldMesh := p.Root.Children[0].(*quarkgl.Mesh)
	oldLight := p.Root.Children[1].(*quarkgl.Light)

	res = m.Swap(script.Program{ID: "p2", Source: twoMeshes})
	require.NoError(t, res.Err)
	assert.True(t, res.Cleaned)
	assert.Equal(t, 2, res.Swept)
	assert.Equal(t, 2, res.Nodes)

	require.Len(t, p.Root.Children, 2)
	for _, c := range p.Root.Children {
		_, ok := c.(*quarkgl.Mesh)
		assert.True(t, ok)
	}
	assert.True(t, oldMesh.Geometry.IsDisposed())
	assert.True(t, oldMesh.Material.IsDisposed())
	assert.True(t, oldLight.IsDisposed())
	assert.Nil(t, oldMesh.Parent())
}

func TestRepeatedSwapsLeaveOnlyLastModule(t *testing.T) {
	m, p, _ := newManager(t)

	var ledgers []*quarkgl.Ledger
	for i := 0; i < 6; i++ {
		src := fmt.Sprintf(`
const leaked = new THREE.TorusGeometry(1, 0.2, 6, 12);
const g = new THREE.Group();
for (let k = 0; k <= %d; k++) {
  g.add(new THREE.Points(new THREE.BufferGeometry(), new THREE.PointsMaterial({ size: 2 })));
}
scene.add(g);
return { cleanup() { leaked.dispose(); } };`, i)
		res := m.Swap(script.Program{ID: fmt.Sprint(i), Source: src})
		require.NoError(t, res.Err)
		ledgers = append(ledgers, m.Module().Ledger())
	}

	last := len(ledgers) - 1
	for i, l := range ledgers[:last] {
		assert.Zero(t, l.Live(), "module %d leaked resources", i)
	}
	assert.Equal(t, 1+2*(last+1), ledgers[last].Live())
	require.Len(t, p.Root.Children, 1)
	assert.Equal(t, 1+last+1, quarkgl.Count(p.Root))
}

type recorder struct{ events []string }

type fakeModule struct {
	id       int
	rec      *recorder
	ledger   *quarkgl.Ledger
	panicky  bool
	updateFn func(float64) error
}

func (f *fakeModule) Update(elapsed, _ float64) error {
	if f.updateFn != nil {
		return f.updateFn(elapsed)
	}
	return nil
}

func (f *fakeModule) Cleanup() error {
	f.rec.events = append(f.rec.events, fmt.Sprintf("cleanup:%d", f.id))
	if f.panicky {
		panic("cleanup exploded")
	}
	return nil
}

func (f *fakeModule) Ledger() *quarkgl.Ledger { return f.ledger }
func (f *fakeModule) Program() script.Program { return script.Program{ID: fmt.Sprint(f.id)} }
func (f *fakeModule) Animated() bool          { return f.updateFn != nil }

type fakeCompiler struct {
	rec     *recorder
	n       int
	panicky bool
}

func (c *fakeCompiler) Compile(script.Program) (script.Module, error) {
	c.n++
	c.rec.events = append(c.rec.events, fmt.Sprintf("setup:%d", c.n))
	return &fakeModule{id: c.n, rec: c.rec, ledger: quarkgl.NewLedger(), panicky: c.panicky}, nil
}

type countingClock struct{ resets int }

func (c *countingClock) Reset() { c.resets++ }

func TestCleanupRunsBeforeNextSetup(t *testing.T) {
	rec := &recorder{}
	clk := &countingClock{}
	m := New(&fakeCompiler{rec: rec}, newPort(), WithClock(clk))

	for i := 0; i < 3; i++ {
		m.Swap(script.Program{})
	}
	assert.Equal(t, []string{"setup:1", "cleanup:1", "setup:2", "cleanup:2", "setup:3"}, rec.events)
	assert.Equal(t, 3, clk.resets)
	assert.Equal(t, 3, m.Swaps())
}

func TestPanickingCleanupDoesNotBlockSwap(t *testing.T) {
	rec := &recorder{}
	ring := journal.NewRing(8)
	m := New(&fakeCompiler{rec: rec, panicky: true}, newPort(), WithJournal(journal.New(ring)))

	m.Swap(script.Program{})
	res := m.Swap(script.Program{})

	var pe *guard.PanicError
	require.ErrorAs(t, res.CleanupErr, &pe)
	assert.Equal(t, Installed, m.State())
	assert.Equal(t, "2", m.Module().Program().ID)
	assert.Contains(t, texts(ring), "Cleanup failed: panic: cleanup exploded")
}

func TestCompileFailureLeavesRootEmpty(t *testing.T) {
	m, p, _ := newManager(t)
	require.NoError(t, m.Swap(script.Program{ID: "p1", Source: meshAndLight}).Err)

	res := m.Swap(script.Program{ID: "p3", Source: `
scene.add(new THREE.Mesh(new THREE.BoxGeometry(), new THREE.MeshBasicMaterial()));
x.y = 1;`})

	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "ReferenceError: x is not defined")
	var ce *script.CompileError
	require.ErrorAs(t, res.Err, &ce)
	assert.Zero(t, ce.Ledger.Live())

	assert.Equal(t, Failed, m.State())
	assert.Nil(t, m.Module())
	assert.Empty(t, p.Root.Children)
	assert.False(t, m.Tick(1, 0.016))
}

func TestUpdateFailureDemotesOnce(t *testing.T) {
	m, p, ring := newManager(t)
	require.NoError(t, m.Swap(script.Program{ID: "p", Source: `
const mesh = new THREE.Mesh();
scene.add(mesh);
return {
  update(t) {
    if (t >= 2) throw new Error("boom");
    mesh.position.x = t;
  },
};`}).Err)

	assert.True(t, m.Tick(1, 0.5))
	assert.False(t, m.Tick(2, 1))
	assert.False(t, m.Tick(3, 1))
	assert.True(t, m.Demoted())

	errs := 0
	for _, s := range texts(ring) {
		if strings.HasPrefix(s, "Runtime error:") {
			errs++
			assert.Equal(t, "Runtime error: Error: boom", s)
		}
	}
	assert.Equal(t, 1, errs)
	assert.InDelta(t, 1, p.Root.Children[0].Object().Position.X, 1e-9)

	res := m.Swap(script.Program{})
	assert.True(t, res.Cleaned)
	assert.False(t, m.Demoted())
}

func TestSwapRestoresCameraAndRenderer(t *testing.T) {
	m, p, _ := newManager(t)
	require.NoError(t, m.Swap(script.Program{Source: `
camera.position.set(3, 3, 3);
camera.fov = 90;
renderer.setClearColor('#223344');`}).Err)
	assert.InDelta(t, 90, p.Camera.Fov, 1e-9)

	m.Swap(script.Program{})
	assert.InDelta(t, 60, p.Camera.Fov, 1e-9)
	assert.InDelta(t, 10, p.Camera.Position.Z, 1e-9)
	assert.Equal(t, int64(0), p.Renderer.GetClearColor().GetHex())
}

func TestTeardownEmptiesSlot(t *testing.T) {
	m, p, _ := newManager(t)
	require.NoError(t, m.Swap(script.Program{Source: meshAndLight}).Err)

	res := m.Teardown()
	assert.True(t, res.Cleaned)
	assert.Equal(t, Empty, m.State())
	assert.Nil(t, m.Module())
	assert.Empty(t, p.Root.Children)
	assert.False(t, m.Tick(1, 1))
}

func TestSwapSurvivesChildListCycle(t *testing.T) {
	m, p, _ := newManager(t)
	world := p.Root.Parent()

	res := m.Swap(script.Program{ID: "cycle", Source: `
const g = new THREE.Group();
scene.add(g);
g.add(new THREE.Mesh(new THREE.BoxGeometry(), new THREE.MeshBasicMaterial()));
g.children.push(g);
scene.children.push(scene);
return {};`})
	require.NoError(t, res.Err)
	assert.Equal(t, 2, res.Nodes)

	target := quarkgl.NewRGBATarget(16, 16)
	r := quarkgl.NewRenderer(16, 16, true)
	r.Render(target, world, p.Camera)
	assert.Equal(t, 4, r.Stats.Nodes)

	res = m.Swap(script.Program{ID: "next", Source: twoMeshes})
	require.NoError(t, res.Err)
	assert.Equal(t, 2, res.Swept)
	assert.Equal(t, 2, res.Disposed)
	assert.Same(t, world, p.Root.Parent())
	assert.Len(t, p.Root.Children, 2)
}

func TestSwapResetsPortState(t *testing.T) {
	m, p, _ := newManager(t)
	world := p.Root.Parent()

	require.NoError(t, m.Swap(script.Program{ID: "p1", Source: `
scene.rotation.y = 1.5;
scene.position.x = 4;
scene.visible = false;
scene.name = "mine";
scene.userData.seen = true;
scene.fog = new THREE.FogExp2(0x000000, 0.05);
renderer.shadowMap.enabled = true;
renderer.shadowMap.type = THREE.PCFSoftShadowMap;
camera.add(new THREE.Mesh(new THREE.BoxGeometry(), new THREE.MeshBasicMaterial()));
scene.removeFromParent();`}).Err)
	require.Nil(t, p.Root.Parent())
	require.Len(t, p.Camera.Children, 1)
	hud := p.Camera.Children[0].(*quarkgl.Mesh)
	assert.True(t, p.Renderer.ShadowMap.Enabled)

	res := m.Swap(script.Program{ID: "p2", Source: twoMeshes})
	require.NoError(t, res.Err)

	assert.Same(t, world, p.Root.Parent())
	assert.Zero(t, p.Root.Rotation.Y)
	assert.Zero(t, p.Root.Position.X)
	assert.True(t, p.Root.Visible)
	assert.Equal(t, "simulation", p.Root.Name)
	assert.Empty(t, p.Root.UserData)
	assert.Nil(t, p.Root.Fog)
	assert.False(t, p.Renderer.ShadowMap.Enabled)

	assert.Empty(t, p.Camera.Children)
	assert.Nil(t, hud.Parent())
	assert.True(t, hud.Geometry.IsDisposed())
	assert.True(t, hud.Material.IsDisposed())
	assert.Len(t, p.Root.Children, 2)
}
