// Package quarkgl provides a small software 3D engine with a retained scene graph.
//
// QuarkGL is the graphics library scene modules program against: object nodes
// (groups, meshes, point clouds, lines, lights), buffer geometries, materials,
// textures and a perspective camera. Nodes are composed into a tree and the
// Renderer walks that tree every frame.
//
// Pipeline (fixed):
//
//	Scene graph → World transform → Projection → Clipping → Rasterization → Target.
//
// GPU-side resources (geometries, materials, textures, lights) implement
// Disposable. A Ledger records every resource created on behalf of one owner so
// the owner can release whatever it leaked in a single call.
//
// The renderer is software-only and draws into a caller-provided Target. It
// reuses its scratch buffers between frames.
package quarkgl
