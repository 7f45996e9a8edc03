// Package market watches daily closing prices of stocks and digital
// currencies and, when the latest move crosses an instrument's threshold,
// texts the top news headlines about the company behind it.
package market
