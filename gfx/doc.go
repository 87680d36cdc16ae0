// Package gfx provides the drawable primitives of the display list: boxes,
// lines, circles, triangles, bitmaps, text, a terminal console and a
// checkbox.
//
// Every primitive keeps its geometry relative to its bounding box, so the
// generic display.Object Move and MoveBy work on all of them. Setters go
// through display.Object.Update and are safe to call while the object is
// shown.
package gfx
