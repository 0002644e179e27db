package template_engine

// TEMPLATES lists the embedded templates.
var TEMPLATES = struct {
	ENTRY struct{ JS TemplateRef }
	INIT  struct{ Config TemplateRef }
}{
	ENTRY: struct{ JS TemplateRef }{JS: TemplateRef{Path: "entry/entry.js.tmpl"}},
	INIT:  struct{ Config TemplateRef }{Config: TemplateRef{Path: "init/weexscan.yaml.tmpl"}},
}
