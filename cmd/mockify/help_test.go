package main

import (
	"strings"
	"testing"

	"github.com/iamtinsae/mockify/internal/ui"
)

func TestColorizeHelpOutput(t *testing.T) {
	in := "Mocks:\n  call        Call a mock endpoint\n\nFlags:\n      --url string   mockify server URL (default \"http://localhost:8080\")\n"
	ui.SetColor(true)
	defer ui.SetColor(false)
	out := colorizeHelpOutput(in)

	for _, want := range []string{
		"\x1b[38;5;74mMocks:\x1b[0m",
		"  \x1b[38;5;74mcall\x1b[0m  ",
		"--url \x1b[38;5;245mstring\x1b[0m",
		"\x1b[38;5;245m(default \"http://localhost:8080\")\x1b[0m",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%q", want, out)
		}
	}
}
