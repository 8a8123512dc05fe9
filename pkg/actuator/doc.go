// Package actuator drives bistable solenoids through pin pairs.
//
// Each solenoid is wired to two outputs A and B. A pulse first drives
// both outputs low and lets them settle, then energizes exactly one of
// them for the pulse duration, and finally returns both to low:
//
//	retract: A=low,  B=high
//	extend:  A=high, B=low
//
// Both outputs are never high at the same time.
package actuator
