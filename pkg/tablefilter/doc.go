// Package tablefilter provides the status row filters of the object bucket
// claim and object bucket list views.
package tablefilter
