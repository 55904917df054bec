// Package strutil holds the string helpers and list parsers used to read
// inference settings such as tensor shapes ("3,640,640;1,80") and
// comma-separated thresholds.
package strutil
