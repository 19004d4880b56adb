package utils

import (
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

// Minifier is the shared minify instance. Call InitMinifier once
// before rendering; the renderer wraps its output writer with it
// when compression is enabled.
var Minifier *minify.M

func InitMinifier() {
	m := minify.New()
	m.AddFunc("text/html", html.Minify)
	Minifier = m
}
