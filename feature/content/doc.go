// Package content holds the raw and cleaned record shapes of CMS content.
//
// The CMS returns listings of arbitrarily nested JSON objects whose keys carry
// encoded meaning. Decode keeps the wire order of keys (needed to fold localized
// variants in encounter order) and Clean rewrites a raw Object into an Entity:
//
//	{"_id": 1, "__v": 2, "title__en": "Hi", "title__fr": "Salut"}
//
// becomes
//
//	{"id": 1, "title": [{"value": "Hi", "locale": "en"}, {"value": "Salut", "locale": "fr"}]}
package content
