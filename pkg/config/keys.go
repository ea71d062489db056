package config

import (
	"reflect"
)

// keys returns the set of koanf keys declared on Config.
func keys() map[string]struct{} {
	t := reflect.TypeOf(Config{})
	known := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("koanf")
		if tag == "" || tag == "-" {
			continue
		}
		known[tag] = struct{}{}
	}
	return known
}
