package chip8

// Display dimensions in pixels.
const (
	DisplayWidth  = 64
	DisplayHeight = 32
)

// Display is the monochrome display surface, stored row-major with the
// pixel at x, y at index x + DisplayWidth*y.
type Display [DisplayWidth * DisplayHeight]bool

// Pixel returns whether the pixel at x, y is set. Coordinates outside of
// the display report false.
func (d *Display) Pixel(x, y int) bool {
	if x < 0 || x >= DisplayWidth || y < 0 || y >= DisplayHeight {
		return false
	}
	return d[x+DisplayWidth*y]
}

// Lit returns the number of set pixels.
func (d *Display) Lit() int {
	var n int
	for _, set := range d {
		if set {
			n++
		}
	}
	return n
}

func (d *Display) clear() {
	*d = Display{}
}

// drawSprite XORs the sprite rows onto the display at x, y. Coordinates
// wrap around the display edges. It returns whether any set pixel was
// cleared.
func (d *Display) drawSprite(x, y uint8, sprite []byte) bool {
	var collision bool
	for row, data := range sprite {
		py := (int(y) + row) % DisplayHeight
		for col := range 8 {
			if data&(0x80>>col) == 0 {
				continue
			}
			px := (int(x) + col) % DisplayWidth
			index := px + DisplayWidth*py
			if d[index] {
				collision = true
			}
			d[index] = !d[index]
		}
	}
	return collision
}
