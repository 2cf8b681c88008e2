// Package stakereport computes proof-of-stake voting income and ticket
// purchase fees for a Decred wallet over a date window, valuing both in
// fiat at the daily opening price effective on each transaction's day.
//
// The pipeline is: decode the wallet transaction dump, resolve each vote
// reward to its funding ticket (consulting a persistent cache of chain
// queries so a dcrd node is only asked once per transaction), then join
// the resolved votes with the historical price series and accumulate
// decimal-exact totals. Rendering lives in the renderer package; the
// `dcrpos` command wires everything together.
package stakereport
