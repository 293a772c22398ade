package i18n

import (
	"slices"
	"testing"

	"github.com/pelletier/go-toml/v2"
)

func TestTranslateWithTemplateData(t *testing.T) {
	tr := NewTranslator("es")
	got := tr.T("es", "wizard.ask_title", map[string]any{"Max": 200})
	if got != "Ingresa el título del evento (máx 200 caracteres):" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := tr.T("en", "errors.event_full", nil); got != "The event is full." {
		t.Fatalf("unexpected english message %q", got)
	}
}

func TestFallbacks(t *testing.T) {
	tr := NewTranslator("es")
	if got := tr.T("fr", "wizard.cancelled", nil); got != "Creación cancelada." {
		t.Fatalf("expected default locale fallback, got %q", got)
	}
	if got := tr.T("es", "does.not.exist", nil); got != "does.not.exist" {
		t.Fatalf("expected key fallback, got %q", got)
	}
	if got := NewTranslator("not a locale").ForLocale("").Msg("ui.pong", nil); got != "Pong! 🏓" {
		t.Fatalf("expected spanish default, got %q", got)
	}
}

func TestLocaleFilesDefineTheSameKeys(t *testing.T) {
	keys := make(map[string][]string)
	for _, file := range localeFiles {
		data, err := localeFS.ReadFile(file)
		if err != nil {
			t.Fatalf("read %s: %v", file, err)
		}
		var raw map[string]string
		if err := toml.Unmarshal(data, &raw); err != nil {
			t.Fatalf("parse %s: %v", file, err)
		}
		for k := range raw {
			keys[file] = append(keys[file], k)
		}
		slices.Sort(keys[file])
	}
	if !slices.Equal(keys["active.es.toml"], keys["active.en.toml"]) {
		t.Fatalf("locale files diverge:\nes=%v\nen=%v", keys["active.es.toml"], keys["active.en.toml"])
	}
}
