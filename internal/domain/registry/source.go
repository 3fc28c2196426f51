package registry

import "fmt"

// CoreID is the identifier reserved for built-in entries.
const CoreID = "core"

// SourceKind distinguishes built-in entries from plugin-provided ones.
type SourceKind int

const (
	SourceCore SourceKind = iota
	SourcePlugin
)

// Source records where a provider or game came from.
type Source struct {
	kind   SourceKind
	plugin string
}

// CoreSource is the source of entries compiled into the application.
func CoreSource() Source {
	return Source{kind: SourceCore}
}

// PluginSource is the source of entries loaded from the named plugin.
func PluginSource(name string) Source {
	return Source{kind: SourcePlugin, plugin: name}
}

// IsCore reports whether the entry is built in.
func (s Source) IsCore() bool {
	return s.kind == SourceCore
}

// Kind returns the source kind.
func (s Source) Kind() SourceKind {
	return s.kind
}

// Plugin returns the plugin name, empty for core entries.
func (s Source) Plugin() string {
	return s.plugin
}

func (s Source) String() string {
	if s.IsCore() {
		return "core"
	}
	return fmt.Sprintf("plugin:%s", s.plugin)
}
