// Package chart renders the price change bar chart and the normalised
// index time series with gonum/plot.
package chart
