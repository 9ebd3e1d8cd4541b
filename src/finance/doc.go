// Package finance holds the numeric core of the server: the compound growth
// projection, the spending insight heuristics and the income/expense summary.
//
// Every function here is pure. Callers own persistence and transport.
package finance
