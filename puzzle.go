package nearcaptcha

import (
	"math/rand/v2"
)

// Instructions tells the solver how to derive the answer from the image.
const Instructions = "Find the Opening Hour of the listed McDonalds and append the 2 last characters to the end. (CASE SENSITIVE)"

// Puzzle is the address drawn into the captcha and the data needed to solve it.
type Puzzle struct {
	Address string
	Hours   string
	// Suffix is one uppercase letter followed by one lowercase letter.
	Suffix string
}

// NewPuzzle draws a random suffix for s.
func NewPuzzle(s *Store, rnd *rand.Rand) *Puzzle {
	upper := byte('A' + rnd.IntN(26))
	lower := byte('a' + rnd.IntN(26))
	return &Puzzle{
		Address: s.Address,
		Hours:   s.TodayHours,
		Suffix:  string([]byte{upper, lower}),
	}
}

// Text returns the string drawn into the image.
func (p *Puzzle) Text() string {
	return p.Address + p.Suffix
}

// Answer returns the opening hour prefix followed by the suffix.
func (p *Puzzle) Answer() string {
	hours := p.Hours
	if r := []rune(hours); len(r) > 2 {
		hours = string(r[:2])
	}
	return hours + p.Suffix
}
