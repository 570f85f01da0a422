// Package maintenance holds the service interval tables and the due-mileage
// rules for maintenance records.
//
// Due status is never stored as truth: it is a function of a record's
// NextMileage and the motorcycle's current odometer reading, recomputed on
// every read.
package maintenance
