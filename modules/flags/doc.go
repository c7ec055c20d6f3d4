// Package flags exposes detected feature flags over HTTP as JSON.
package flags
