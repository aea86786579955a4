// Package charting renders dashboard series as PNG line charts.
package charting
