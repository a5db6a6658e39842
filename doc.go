// Package confetti is a confetti particle scene for [Ebitengine].
//
// A [Scene] owns 36 confetti types (foreground and background, rectangle
// and circle, nine palette colors), one [EmissionSource] per type, and an
// optional list of [ForceBehavior] values applied to every particle each
// step. Sprites are rendered procedurally when the scene is built.
//
// # Quick start
//
// The simplest way to see it is [Run], which creates a window and game loop:
//
//	if err := confetti.Run(config.Default(), false); err != nil {
//		log.Fatal(err)
//	}
//
// Hosts that draw the scene themselves call [Scene.Tick] once per frame and
// [Scene.Quads] to get the sprites to composite:
//
//	scene, err := confetti.Build(true)
//	// ...
//	scene.Tick(1.0 / 60)
//	quads = scene.Quads(quads)
//
// # Scenes
//
// The simple scene rains flat confetti from a strip above the view under
// constant vertical acceleration. The advanced scene emits 3-D plane
// confetti with no initial velocity from a sphere in the middle of the view;
// two [Wave] forces and an [Attractor] move it around.
//
// Presets live in the config package as embedded YAML and can be
// overridden with a user file.
//
// [Ebitengine]: https://ebitengine.org
package confetti
