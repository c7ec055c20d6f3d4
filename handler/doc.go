// Package handler turns functions returning a Response into http.HandlerFunc
// values. Responses render themselves (JSON, templ HTML), and errors are
// mapped to HTTP statuses in one place: HTTPError keeps its code, cluster
// API failures answer 502, except 403 and 404 which pass through.
package handler
