package puz

// Note is free text a solver attaches to a clue or to the whole puzzle.
type Note struct {
	Scratch         string `json:"scratch,omitempty"`
	Text            string `json:"text,omitempty"`
	AnagramSource   string `json:"anagramSource,omitempty"`
	AnagramSolution string `json:"anagramSolution,omitempty"`
}

// IsEmpty reports whether every field is empty.
func (n Note) IsEmpty() bool {
	return n == Note{}
}

// PuzImage is an overlay image anchored to a rectangle of grid cells.
type PuzImage struct {
	URL    string `json:"url"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}
