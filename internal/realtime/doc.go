// Package realtime streams pipeline stage events to websocket clients.
// The protocol is one-way: the server pushes JSON-encoded events, client
// frames are read only to service pings and close handshakes. Clients
// that cannot keep up are dropped so a slow consumer never stalls a run.
package realtime
