// Package glitch renders a looping image slideshow with animated glitch
// effects for [Ebitengine].
//
// Each scene pairs an image with a caption and a set of [EffectSettings].
// Every frame the [Engine] letterboxes the scene image into a centered 4:3
// rectangle, tints it with a slowly cycling hue gradient, scatters a grid of
// block glyphs over it, bends it into horizontally displaced slices, draws
// the caption, and finally paints the fade-through-black overlay of any
// running [Transition]. Scene changes only happen at the midpoint of a
// transition, while the screen is fully covered.
//
// # Quick start
//
// Load a show file and hand the engine to [Run]:
//
//	cfg, err := glitch.LoadConfig("show.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	cat, _ := cfg.Catalog()
//	engine := glitch.NewEngine(cat, glitch.EngineOptions{
//		Loader:             glitch.NewLoader(os.DirFS(cfg.ImageDir)),
//		TransitionDuration: cfg.TransitionDuration(),
//	})
//	err = glitch.Run(glitch.NewGame(engine), glitch.RunConfig{
//		Title: cfg.Title, Width: cfg.Window.Width, Height: cfg.Window.Height,
//	})
//
// Arrow keys move between scenes, space pauses, F12 takes a screenshot and
// Escape quits.
//
// # Surfaces
//
// Rendering goes through the [Surface] interface. [EbitenSurface] draws on
// the GPU inside the game loop; [RasterSurface] draws into an *image.RGBA on
// the CPU, which is what headless runs and tests use. Effects accept only
// the capabilities they need ([RectFiller], [GlyphPainter], [Bender]).
//
// # Images
//
// Scene images are decoded on background goroutines by a [Loader]. Until a
// requested image arrives the engine keeps drawing the previous one. PNG,
// JPEG, GIF, WebP, BMP and TIFF are supported.
//
// # Scripts
//
// A [ScriptRunner] replays navigation and screenshots from a JSON file,
// which makes visual regressions easy to capture:
//
//	{"steps": [
//		{"action": "screenshot", "label": "first"},
//		{"action": "next"},
//		{"action": "settle"},
//		{"action": "screenshot", "label": "second"},
//		{"action": "stop"}
//	]}
//
// [Ebitengine]: https://ebitengine.org
package glitch
