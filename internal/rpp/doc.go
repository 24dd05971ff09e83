// Package rpp rewrites REAPER project (.rpp) text so the engine renders a
// short preview.
//
// The project format is patched as text rather than parsed: top-level
// render settings are replaced or inserted before the root close, the
// RENDER_CFG codec block is swapped wholesale, and relative FILE references
// are made absolute so the patched copy can live in a temp directory.
// Everything else in the document is preserved byte for byte.
package rpp
