// Package utils provides small conversion helpers shared by the cms-sync packages.
// It normalizes decoded JSON scalars (ids, timestamps) to strings and formats
// content-type names.
package utils
