package config

import "reflect"

// diffEvent lists the top-level fields that differ between two struct
// values (or pointers to them).
func diffEvent(old, new any) Event {
	evt := Event{OldConfig: old, NewConfig: new}
	if old == nil || new == nil {
		return evt
	}

	oldVal := reflect.Indirect(reflect.ValueOf(old))
	newVal := reflect.Indirect(reflect.ValueOf(new))
	if oldVal.Kind() != reflect.Struct || newVal.Kind() != reflect.Struct || oldVal.Type() != newVal.Type() {
		return evt
	}

	typ := oldVal.Type()
	for i := 0; i < oldVal.NumField(); i++ {
		if !typ.Field(i).IsExported() {
			continue
		}
		if !reflect.DeepEqual(oldVal.Field(i).Interface(), newVal.Field(i).Interface()) {
			evt.ChangedKeys = append(evt.ChangedKeys, typ.Field(i).Name)
		}
	}
	return evt
}
