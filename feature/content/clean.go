package content

import "strings"

// Clean rewrites a raw CMS object into an Entity:
//
//   - "__key" is dropped,
//   - "_key" is stored as "key",
//   - "name__locale" is appended to name: [{value, locale}, ...] in encounter order,
//   - nested objects are cleaned recursively.
//
// Arrays are not rewritten; their elements are only converted to map form.
// The input is not modified.
func Clean(raw Object) Entity {
	return Entity(cleanObject(raw))
}

// CleanAll cleans every record of a listing.
func CleanAll(raws []Object) []Entity {
	out := make([]Entity, len(raws))
	for i, raw := range raws {
		out[i] = Clean(raw)
	}
	return out
}

func cleanObject(obj Object) map[string]any {
	out := make(map[string]any, len(obj))

	var (
		localized map[string][]any
		order     []string
	)

	for _, f := range obj {
		if strings.HasPrefix(f.Key, "__") {
			continue
		}

		// After stripping a single leading underscore the key can no longer
		// start with one, but it may still carry a locale suffix.
		key := strings.TrimPrefix(f.Key, "_")

		if name, locale, ok := strings.Cut(key, "__"); ok {
			if localized == nil {
				localized = make(map[string][]any)
			}
			if _, seen := localized[name]; !seen {
				order = append(order, name)
			}
			localized[name] = append(localized[name], map[string]any{
				"value":  cleanValue(f.Value),
				"locale": locale,
			})
			continue
		}

		out[key] = cleanValue(f.Value)
	}

	// Localized variants extend an existing array under the base name and
	// replace any other plain value.
	for _, name := range order {
		if existing, ok := out[name].([]any); ok {
			seq := make([]any, 0, len(existing)+len(localized[name]))
			seq = append(seq, existing...)
			out[name] = append(seq, localized[name]...)
			continue
		}
		out[name] = localized[name]
	}

	return out
}

func cleanValue(v any) any {
	switch t := v.(type) {
	case Object:
		return cleanObject(t)
	case map[string]any:
		return cleanObject(ToObject(t))
	case []any:
		return plain(t)
	default:
		return v
	}
}
