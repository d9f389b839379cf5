// Package domain implements the Speed Print Module (SPM) analysis engine.
//
// # Data Source
//
// SPM loggers are fitted to locomotives and record one sample per second (or
// slower, with gaps): timestamp, cumulative distance in metres, speed in
// km/h, and an optional device event code. Five logger vendors are supported
// — Medha, Laxven, Telpro, Autometers, and Shakti — whose file layouts are
// parsed by upstream adapters into the single canonical sample stream this
// package consumes. Vendor behavioural differences that survive parsing
// (zero-speed event code, stop-anchor policy, checkpoint schedule, brake-test
// reduction floor) are captured by [VendorProfile].
//
// # Sample Conventions
//
// Distance:
//
//	Cumulative metres, monotonic non-decreasing within a trip. Raw values are
//	in the route frame of the station table; [Normalize] subtracts the "from"
//	station's chainage and re-bases to zero at the departure sample.
//
// Speed:
//
//	km/h, never negative. A speed of exactly 0 together with the vendor's
//	zero-speed event code marks a potential stop.
//
// Event codes:
//
//	Free-form vendor strings. Only two are interpreted: the zero-speed code
//	(stop detection) and, for vendors that emit one, the start code that
//	marks resumption of movement after a halt.
//
// # Detection Thresholds
//
// Grouping tolerates sample gaps up to 10 s before splitting an episode in
// two. Stops closer than 200 m to the previously retained stop are treated
// as the same halt. A stop must last 10 s to be reported, except the final
// stop of the journey, which is always kept because the trip may end with
// the train stationary. Wheel slip is a speed rise of at least 4 km/h
// between consecutive samples no more than 1 s apart; wheel skid is a drop
// of at least 5 km/h under the same pairing rule.
//
// Rolling-stock specific numbers — braking-quality thresholds, brake-test
// speed bands, and speed-distribution buckets — live in tables keyed by
// [RakeType]; see profile.go.
//
// # Determinism
//
// Every function in this package is a pure computation over its inputs. The
// only time source is the injectable package clock (see [SetClock]), used
// solely to stamp [Report.GeneratedAt]; under a frozen clock the same input
// always produces a byte-identical report.
package domain
