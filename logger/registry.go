package logger

import "sync"

// named caches one logger per component name.
var named sync.Map

// Get returns the logger for a component, creating it from the global logger
// on first use.
func Get(name string) *Logger {
	if l, ok := named.Load(name); ok {
		return l.(*Logger)
	}
	l, _ := named.LoadOrStore(name, GetGlobalLogger().WithComponent(name))
	return l.(*Logger)
}

// resetNamed forgets every component logger so they are rebuilt from a newly
// initialised global logger.
func resetNamed() {
	named.Clear()
}
