// Package console serves the server-rendered console views built from the
// pipeline, tablefilter and resourceui packages.
package console
