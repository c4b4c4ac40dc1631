package config

func mergeMaps(dst, src map[string]any) {
	for k, v := range src {
		if mv, ok := v.(map[string]any); ok {
			if existing, ok := dst[k].(map[string]any); ok {
				mergeMaps(existing, mv)
				continue
			}
			dst[k] = CopyMap(mv)
			continue
		}
		dst[k] = v
	}
}

// MergeMaps deep-merges src into dst; src wins on conflicts.
func MergeMaps(dst, src map[string]any) { mergeMaps(dst, src) }

// CopyMap deep-copies nested maps. Leaf values are shared.
func CopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			out[k] = CopyMap(nested)
			continue
		}
		out[k] = v
	}
	return out
}
