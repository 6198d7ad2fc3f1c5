// Package entity provides a client for the Moonstream Entity API: collections
// of records identifying blockchain addresses, each carrying a fixed schema
// (address, blockchain, name) plus user-defined required and secondary field
// maps, searchable by field value. The wire codec lives alongside the client:
// entity create and update bodies flatten the Content map into the top level
// of the request, while responses keep secondary_fields nested, and that
// asymmetry is preserved exactly. The Client type exposes one method per
// remote operation over a swappable Backend, so the in-memory store in
// pkg/entity/mock can stand in for the HTTP transport.
package entity
