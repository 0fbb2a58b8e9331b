package main

import (
	"strings"

	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (error, bool) {
	help(op.arg)
	return nil, false
}

func help(topic string) {
	tracer().Infof("help %v", topic)
	t := strings.ToLower(topic)
	switch t {
	case "output", "cursor", "phase":
		pterm.Info.Println("Output phases")
		pterm.Println(`
	A stage rewriting the glyph sequence opens an output phase with 'output'.
	The cursor then walks the input, and every op writes to the output:
	+--------+------------------------------------------+
	| next:n | pass n glyphs through                    |
	| skip   | drop the glyph at the cursor             |
	| copy   | output the cursor glyph, do not consume  |
	| replace:n:g,.. | consume n glyphs, output g,..    |
	| emit:g | output glyph g, do not consume           |
	| delete | drop the cursor glyph, keep its cluster  |
	| move:i | move the output to input position i      |
	+--------+------------------------------------------+
	'swap' ends the phase; the output becomes the buffer's content.
	`)
	case "cluster", "clusters":
		pterm.Info.Println("Clusters")
		pterm.Println(`
	Every glyph carries the cluster id of the text it stems from.
	  merge:s:e      merge input clusters in [s,e)
	  merge:s:out    merge output clusters from s to the write position
	  unsafe:s:e     mark breaking inside [s,e) as unsafe
	  level:l        cluster level: graphemes | monotone | characters
	`)
	default:
		pterm.Info.Println("General Help")
		pterm.Println(`
	Ops are separated by blanks, arguments by colons, e.g. "add:éx shape print".
	  add:text         append text ('_' is a blank)
	  props:dir:script set direction (ltr|rtl|ttb|btt) and script (e.g. Latn)
	  guess            guess missing segment properties
	  clear            reset the buffer
	  reverse[:what]   reverse all, clusters or graphemes
	  normalize        normalize glyph order and offsets inside clusters
	  masks:v:m        set mask bits m to v on all glyphs
	  shape            run the nominal shaping stages with the loaded font
	  freeze           show the frozen result
	  print[:out|ser]  show buffer, output or serialized form
	  help[:topic]     topics: output, clusters
	  quit
	`)
	}
}
