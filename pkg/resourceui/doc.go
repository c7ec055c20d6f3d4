// Package resourceui renders the small resource widgets shared by console
// views: the kind icon, the icon plus name, and a link to an object.
package resourceui
