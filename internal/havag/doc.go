// Package havag fetches departure boards from the HAVAG real-time
// passenger information service (rtpi).
//
// The service exposes a single Hessian RPC method, getDeparturesForStop,
// taking a stop name and returning an ordered list of records. Each record
// is a list whose first three fields are the line, the destination, and
// the scheduled departure time formatted as "YYYY.MM.DD.HH:MM:SS"; any
// further fields are ignored. Records are validated eagerly on receipt
// and surface as typed Departure values.
//
// Failures are split into *RemoteError (the call itself failed - network,
// HTTP status, protocol fault) and *RecordError (the service answered with
// a record this client cannot understand).
package havag
