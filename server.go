// Entrypoint for the deployed site. App Engine routes anything the
// static handlers don't cover here; locally it doubles as a minimal
// way to preview the built output without the full dev server.
package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const (
	publicDir  = "public"
	blogPrefix = "/blog/"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	fs := http.FileServer(http.Dir(publicDir))

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		upath := r.URL.Path
		if strings.HasSuffix(upath, "/") {
			upath += "index.html"
		}

		_, err := os.Stat(filepath.Join(publicDir, filepath.FromSlash(upath)))
		if os.IsNotExist(err) && strings.HasPrefix(r.URL.Path, blogPrefix) {
			// A post that moved or never existed. Serve the blog's own
			// not-found page instead of the bare default, but keep the
			// status honest so crawlers drop the URL.
			w.WriteHeader(http.StatusNotFound)
			http.ServeFile(w, r, filepath.Join(publicDir, "blog", "404.html"))
			return
		}

		fs.ServeHTTP(w, r)
	})

	log.Printf("Serving %s on http://localhost:%s\n", publicDir, port)
	log.Fatal(http.ListenAndServe(":"+port, nil))
}
