package engine

import "noise-obliterator/internal/buffer"

// tile is one dispatch unit: a sub-rectangle of the output plus the halo
// margin its kernel needs. The halo borrows real neighboring pixels during
// extraction, clipped at the image boundary, so filtering at tile edges
// matches whole-buffer filtering.
type tile struct {
	rect buffer.Rect
	halo int
}

// splitTiles partitions a w by h extent into a grid of rects no larger than
// size on a side. Edge tiles absorb the remainder.
func splitTiles(w, h, size, halo int) []tile {
	tiles := make([]tile, 0, ((w+size-1)/size)*((h+size-1)/size))
	for y := 0; y < h; y += size {
		th := size
		if y+th > h {
			th = h - y
		}
		for x := 0; x < w; x += size {
			tw := size
			if x+tw > w {
				tw = w - x
			}
			tiles = append(tiles, tile{
				rect: buffer.Rect{X: x, Y: y, W: tw, H: th},
				halo: halo,
			})
		}
	}
	return tiles
}
