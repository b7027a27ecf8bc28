// Package grocery builds shopping lists from meal plans.
//
// The Builder aggregates every meal item in a date range into (name, unit)
// lines, expanding recipes into their ingredients. Classify assigns each
// line to one of a fixed, ordered set of categories. Group orders lines for
// display. A Session tracks per-range checked and completed state through a
// Tracker, and invalidates a completed list when its content signature no
// longer matches the meal plans. The Refresher re-runs a Session on meal
// plan events, focus, and day rollover.
package grocery
