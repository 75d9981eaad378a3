package keymap

import "testing"

func testRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

func TestLookup_ContextBinding(t *testing.T) {
	r := testRegistry()

	cmd, ok := r.Lookup("ctrl+s", "editor")
	if !ok {
		t.Fatal("ctrl+s should resolve in editor context")
	}
	if cmd != "save-note" {
		t.Errorf("Lookup(ctrl+s, editor) = %q, want save-note", cmd)
	}
}

func TestLookup_GlobalFallback(t *testing.T) {
	r := testRegistry()

	cmd, ok := r.Lookup("ctrl+c", "editor")
	if !ok {
		t.Fatal("ctrl+c should fall back to global")
	}
	if cmd != "quit" {
		t.Errorf("Lookup(ctrl+c, editor) = %q, want quit", cmd)
	}
}

func TestLookup_ContextWinsOverGlobal(t *testing.T) {
	r := NewRegistry()
	r.RegisterBinding(Binding{Key: "x", Command: "global-thing", Context: "global"})
	r.RegisterBinding(Binding{Key: "x", Command: "local-thing", Context: "editor"})

	cmd, ok := r.Lookup("x", "editor")
	if !ok || cmd != "local-thing" {
		t.Errorf("Lookup(x, editor) = %q, %v, want local-thing", cmd, ok)
	}
}

func TestLookup_Unbound(t *testing.T) {
	r := testRegistry()

	if cmd, ok := r.Lookup("ctrl+z", "editor"); ok {
		t.Errorf("ctrl+z should be unbound, resolved to %q", cmd)
	}
}

func TestUserOverride(t *testing.T) {
	r := testRegistry()
	r.SetUserOverride("editor.save-note", "ctrl+w")

	if cmd, ok := r.Lookup("ctrl+w", "editor"); !ok || cmd != "save-note" {
		t.Errorf("Lookup(ctrl+w, editor) = %q, %v, want save-note", cmd, ok)
	}
	// Original key no longer resolves.
	if _, ok := r.Lookup("ctrl+s", "editor"); ok {
		t.Error("ctrl+s should no longer resolve after override")
	}
}

func TestKeyFor(t *testing.T) {
	r := testRegistry()

	if key := r.KeyFor("save-note", "editor"); key != "ctrl+s" {
		t.Errorf("KeyFor(save-note, editor) = %q, want ctrl+s", key)
	}
	// Global command visible from a plugin context.
	if key := r.KeyFor("quit", "editor"); key != "ctrl+c" {
		t.Errorf("KeyFor(quit, editor) = %q, want ctrl+c", key)
	}
	if key := r.KeyFor("no-such-command", "editor"); key != "" {
		t.Errorf("KeyFor(no-such-command) = %q, want empty", key)
	}
}

func TestKeyFor_RespectsOverride(t *testing.T) {
	r := testRegistry()
	r.ApplyOverrides(map[string]string{"editor.save-note": "ctrl+w"})

	if key := r.KeyFor("save-note", "editor"); key != "ctrl+w" {
		t.Errorf("KeyFor(save-note, editor) = %q, want ctrl+w", key)
	}
}

func TestBindingsFor_IncludesGlobal(t *testing.T) {
	r := testRegistry()

	bindings := r.BindingsFor("phrases")
	var sawLocal, sawGlobal bool
	for _, b := range bindings {
		if b.Command == "add-phrase" {
			sawLocal = true
		}
		if b.Command == "quit" {
			sawGlobal = true
		}
	}
	if !sawLocal {
		t.Error("BindingsFor(phrases) missing context binding add-phrase")
	}
	if !sawGlobal {
		t.Error("BindingsFor(phrases) missing global binding quit")
	}
}

func TestDefaultBindings_FilterContext(t *testing.T) {
	r := testRegistry()

	if cmd, ok := r.Lookup("esc", "phrases-filter"); !ok || cmd != "clear-filter" {
		t.Errorf("Lookup(esc, phrases-filter) = %q, %v, want clear-filter", cmd, ok)
	}
	if cmd, ok := r.Lookup("enter", "phrases-filter"); !ok || cmd != "apply-filter" {
		t.Errorf("Lookup(enter, phrases-filter) = %q, %v, want apply-filter", cmd, ok)
	}
}

func TestRegisterBinding_EmptyContextIsGlobal(t *testing.T) {
	r := NewRegistry()
	r.RegisterBinding(Binding{Key: "z", Command: "zap"})

	if cmd, ok := r.Lookup("z", "anything"); !ok || cmd != "zap" {
		t.Errorf("Lookup(z, anything) = %q, %v, want zap", cmd, ok)
	}
}
