// Command validate checks a map layout file and prints a phase-by-phase
// report: the file loads, every field satisfies the map invariants, and any
// overlapping hazard zones are listed with the zone drawn on top.
//
// Usage:
//
//	go run ./cmd/validate -layout deploy/layout.yaml
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/couchcryptid/floodlight-guardian-view/internal/config"
	"github.com/couchcryptid/floodlight-guardian-view/internal/domain"
	"github.com/couchcryptid/floodlight-guardian-view/internal/mapview"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
	notes  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) notef(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	layoutPath := flag.String("layout", "", "YAML map layout to validate (default: built-in layout)")
	flag.Parse()

	if code := run(*layoutPath); code != 0 {
		os.Exit(code)
	}
}

func run(layoutPath string) int {
	var phases []*phase

	load := &phase{name: "load layout"}
	phases = append(phases, load)
	layout, err := config.LoadLayout(layoutPath)
	if err != nil {
		load.errorf("%v", err)
		return report(phases)
	}
	load.notef("%d layers, %d zones", len(layout.Layers), len(layout.Zones))

	fields := &phase{name: "field invariants"}
	phases = append(phases, fields)
	view, err := layout.Build()
	if err != nil {
		for _, e := range flatten(err) {
			var ce *domain.ConfigError
			if errors.As(e, &ce) {
				fields.errorf("%s: %s", ce.Field, ce.Reason)
				continue
			}
			fields.errorf("%v", e)
		}
		return report(phases)
	}

	phases = append(phases, checkComposition(view))
	return report(phases)
}

func checkComposition(view *mapview.MapView) *phase {
	p := &phase{name: "composition"}
	comp := view.Composition()

	p.notef("base layer %q", comp.Base.Name)
	for _, l := range comp.Overlays {
		note := fmt.Sprintf("overlay %q (z-index %d)", l.Name, l.ZIndex)
		if l.ZoomInvariant {
			note += ", same image at every tile position"
		}
		p.notef("%s", note)
	}

	zones := view.Zones()
	for _, o := range view.Overlaps() {
		p.notef("zones[%d] %s overlaps zones[%d] %s; zones[%d] is drawn on top",
			o.Lower, zones[o.Lower].Label(), o.Upper, zones[o.Upper].Label(), o.Upper)
	}
	p.notef("fingerprint %s", view.Fingerprint())
	return p
}

// flatten expands errors.Join trees into their leaves.
func flatten(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}

func report(phases []*phase) int {
	failed := false
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = "FAIL"
			failed = true
		}
		fmt.Printf("[%s] %s\n", status, p.name)
		for _, e := range p.errors {
			fmt.Printf("    error: %s\n", e)
		}
		for _, n := range p.notes {
			fmt.Printf("    %s\n", n)
		}
	}
	if failed {
		return 1
	}
	return 0
}
