// Package cms is the HTTP client for the source CMS.
//
// Collection types are listed at "<api>/<plural>?_limit=<n>" and single types at
// "<api>/<name>". A JWT obtained from "<api>/auth/local" is sent as a bearer token
// when a login is configured. Responses keep their JSON key order so the cleaner
// can see fields in the order the CMS sent them.
//
// Non-2xx responses are returned as *APIError; 5xx and 429 responses are retried
// with exponential back-off.
package cms
