// Command render writes the dashboard page for a map layout to a static HTML
// file. The page works without the server: layer toggles are not reported
// and location search is left out.
//
// Usage:
//
//	go run ./cmd/render -layout deploy/layout.yaml -out guardian-view.html
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	httpadapter "github.com/couchcryptid/floodlight-guardian-view/internal/adapter/http"
	"github.com/couchcryptid/floodlight-guardian-view/internal/config"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	layoutPath := flag.String("layout", "", "YAML map layout (default: built-in layout)")
	out := flag.String("out", "", "output path for the rendered HTML page")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	layout, err := config.LoadLayout(*layoutPath)
	if err != nil {
		return err
	}
	view, err := layout.Build()
	if err != nil {
		return fmt.Errorf("invalid layout:\n%w", err)
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create %s: %w", *out, err)
	}
	renderer := httpadapter.NewRenderer(view, layout.Page, false)
	if err := renderer.Render(f, ""); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", *out, err)
	}

	fmt.Printf("wrote %s (fingerprint %s, %d overlays, %d zones)\n",
		*out, view.Fingerprint(), len(view.OverlayIDs()), len(view.Zones()))
	return nil
}
