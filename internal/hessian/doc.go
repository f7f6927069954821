// Package hessian implements a client for the Hessian 1.0 binary RPC
// protocol over HTTP, covering the subset of the wire format the HAVAG
// real-time departure service speaks.
//
// A call is a single HTTP POST whose body encodes the method name and
// arguments:
//
//	c 0x01 0x00 m <len> getDeparturesForStop S <len> Marktplatz z
//
// The reply frame is either a result value or a fault:
//
//	r 0x01 0x00 <value> z
//	r 0x01 0x00 f <key/value pairs> z
//
// Supported value types are null, booleans, 32-bit ints, longs, doubles,
// dates, UTF-8 strings (including chunked), byte arrays, lists, maps with
// string keys, and back-references to already-decoded containers. Faults
// are surfaced as *Fault errors carrying the remote code and message.
// String lengths count characters; text outside the Basic Multilingual
// Plane is not handled.
//
// No external dependencies required - uses only the standard library.
package hessian
