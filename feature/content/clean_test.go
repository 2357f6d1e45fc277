package content

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeObject(t *testing.T, doc string) Object {
	t.Helper()
	v, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	obj, ok := v.(Object)
	require.True(t, ok, "document is not an object")
	return obj
}

func TestClean_EndToEnd(t *testing.T) {
	v, err := Decode(strings.NewReader(`[{"_id":1,"__v":2,"title__en":"Hi","title__fr":"Salut"}]`))
	require.NoError(t, err)
	records, err := Records(v)
	require.NoError(t, err)

	got := CleanAll(records)

	want := []Entity{{
		"id": json.Number("1"),
		"title": []any{
			map[string]any{"value": "Hi", "locale": "en"},
			map[string]any{"value": "Salut", "locale": "fr"},
		},
	}}
	assert.Equal(t, want, got)
	assert.Equal(t, "1", got[0].ID())
}

func TestClean_Rules(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Entity
	}{
		{
			name: "DoubleUnderscorePrefixDropped",
			in:   `{"__v":1,"__proto":{"a":1},"ok":true}`,
			want: Entity{"ok": true},
		},
		{
			name: "SingleUnderscoreRenamed",
			in:   `{"_id":"abc","_createdAt":"2020"}`,
			want: Entity{"id": "abc", "createdAt": "2020"},
		},
		{
			name: "LocaleSplitOnFirstOccurrence",
			in:   `{"body__pt__BR":"Oi"}`,
			want: Entity{"body": []any{map[string]any{"value": "Oi", "locale": "pt__BR"}}},
		},
		{
			name: "PrefixThenInfix",
			in:   `{"_name__de":"Hallo"}`,
			want: Entity{"name": []any{map[string]any{"value": "Hallo", "locale": "de"}}},
		},
		{
			name: "LocalizedWinsOverPlain",
			in:   `{"title__en":"Hi","title":"plain"}`,
			want: Entity{"title": []any{map[string]any{"value": "Hi", "locale": "en"}}},
		},
		{
			name: "LocalizedAppendsToExistingArray",
			in:   `{"tags":["x"],"tags__en":"y"}`,
			want: Entity{"tags": []any{"x", map[string]any{"value": "y", "locale": "en"}}},
		},
		{
			name: "LocalizedAppendsToArrayDeclaredLater",
			in:   `{"tags__en":"y","_tags":["x"]}`,
			want: Entity{"tags": []any{"x", map[string]any{"value": "y", "locale": "en"}}},
		},
		{
			name: "NestedObjectsCleaned",
			in:   `{"author":{"_id":7,"__v":0,"bio":{"_id":8,"text__en":"x"}}}`,
			want: Entity{"author": map[string]any{
				"id": json.Number("7"),
				"bio": map[string]any{
					"id":   json.Number("8"),
					"text": []any{map[string]any{"value": "x", "locale": "en"}},
				},
			}},
		},
		{
			name: "ArraysNotRewritten",
			in:   `{"tags":[{"_id":1,"name__en":"a"},"b",3]}`,
			want: Entity{"tags": []any{
				map[string]any{"_id": json.Number("1"), "name__en": "a"},
				"b",
				json.Number("3"),
			}},
		},
		{
			name: "LocalizedObjectValueCleaned",
			in:   `{"seo__en":{"_id":1,"__v":2}}`,
			want: Entity{"seo": []any{map[string]any{
				"value":  map[string]any{"id": json.Number("1")},
				"locale": "en",
			}}},
		},
		{
			name: "NullAndPrimitivesKept",
			in:   `{"a":null,"b":false,"c":"s","d":1.5}`,
			want: Entity{"a": nil, "b": false, "c": "s", "d": json.Number("1.5")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(decodeObject(t, tt.in)))
		})
	}
}

func TestClean_DoesNotModifyInput(t *testing.T) {
	raw := decodeObject(t, `{"_id":1,"nested":{"_x":2}}`)
	before := fmt.Sprintf("%#v", raw)
	Clean(raw)
	assert.Equal(t, before, fmt.Sprintf("%#v", raw))
}

func TestClean_Idempotent(t *testing.T) {
	raw := decodeObject(t, `{
		"_id": 1, "__v": 2,
		"title__en": "Hi", "title__fr": "Salut",
		"cover": {"_id": 3, "mime": "image/png", "url": "/a.png"},
		"gallery": [{"id": 4, "mime": "image/jpeg"}],
		"meta": {"seo": {"_slug": "hi", "desc__en": "d"}}
	}`)

	once := Clean(raw)
	twice := Clean(ToObject(once))
	assert.Equal(t, once, twice)
}

// Randomized check: cleaned objects reachable through object properties never
// carry a leading underscore or an infix double underscore, and every localized
// key of the input shows up as a {value, locale} pair in encounter order.
func TestClean_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		raw := randomObject(rng, 3)
		cleaned := Clean(raw)

		assertCleanKeys(t, cleaned)

		expected := map[string][]string{}
		for _, f := range raw {
			if strings.HasPrefix(f.Key, "__") {
				continue
			}
			key := strings.TrimPrefix(f.Key, "_")
			if name, locale, ok := strings.Cut(key, "__"); ok {
				expected[name] = append(expected[name], locale)
			}
		}
		for name, locales := range expected {
			seq, ok := cleaned[name].([]any)
			require.True(t, ok, "missing localized sequence %q", name)
			require.Len(t, seq, len(locales))
			for j, locale := range locales {
				assert.Equal(t, locale, seq[j].(map[string]any)["locale"])
			}
		}
	}
}

func assertCleanKeys(t *testing.T, m map[string]any) {
	t.Helper()
	for k, v := range m {
		assert.False(t, strings.HasPrefix(k, "_"), "key %q", k)
		assert.NotContains(t, k, "__")
		if child, ok := v.(map[string]any); ok {
			assertCleanKeys(t, child)
		}
	}
}

func randomObject(rng *rand.Rand, depth int) Object {
	prefixes := []string{"", "_", "__"}
	names := []string{"title", "body", "slug", "cover"}
	locales := []string{"en", "fr", "de"}

	n := rng.Intn(6) + 1
	obj := make(Object, 0, n)
	for i := 0; i < n; i++ {
		key := prefixes[rng.Intn(len(prefixes))] + names[rng.Intn(len(names))]
		if rng.Intn(3) == 0 {
			key += "__" + locales[rng.Intn(len(locales))]
		}

		var val any = json.Number(fmt.Sprint(rng.Intn(100)))
		if depth > 0 && rng.Intn(3) == 0 {
			val = randomObject(rng, depth-1)
		}
		obj = append(obj, Field{Key: key, Value: val})
	}
	return obj
}
