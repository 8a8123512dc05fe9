// Package comm provides L0 protocol support.
package comm

// L0 protocol is communicated between a host (the sender) and the
// solenoid controller over a peer-to-peer byte channel (e.g. serial port).
//
// Every command is a fixed 4-byte frame:
//
//	[0xAA] [0x55] [device+0x0A] [action+0x0A]
//
// The two header bytes let the receiver resynchronize on a noisy or
// partially received stream. The payload bias keeps payload bytes away
// from the header values. There is no checksum and no reply: a frame
// which fails validation is dropped, and it's up to the sender to
// resend if it cares.
//
// Producer: host (Sender)
// Consumer: controller (Parser, Receiver)
