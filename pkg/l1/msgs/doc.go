// Package msgs defines the events a solenoid controller publishes.
package msgs

// Events are protobuf messages wrapped in a Typed envelope which
// carries the type ID and a sequence number.
//
// Producer: solenoidd
// Consumer: solenoidmon and other subscribers
