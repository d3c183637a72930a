package action

import "github.com/casualjim/corvid/internal/registry"

// Global is the process-wide action registry. Engines resolve actions by
// name here before falling back to their built-in heuristics.
var Global = registry.New[Definition]()

func Add(def Definition) {
	Global.Add(def.Name, def)
}

func Get(name string) (Definition, bool) {
	return Global.Get(name)
}

func Del(name string) {
	Global.Del(name)
}

// Names returns the registered action names in no particular order.
func Names() []string {
	return Global.Names()
}
