// Package live drives tooltips over a WebSocket.
//
// The browser reports pointer and geometry events as JSON frames; the
// server runs one tooltip.Positioner per registered trigger on a
// per-session loop.Loop and streams mount, move and unmount frames back.
//
//	client → server
//	  {"type":"register","id":"t1","content":"...","side":"top","delay":200,"trigger":{...}}
//	  {"type":"enter","id":"t1"}            {"type":"leave","id":"t1"}
//	  {"type":"layout","scroll":{...},"viewport":{...},"cause":"resize"}
//	  {"type":"measure","id":"t1","trigger":{...},"surface":{...}}
//	  {"type":"unregister","id":"t1"}
//
//	server → client
//	  {"type":"hello","session":"<uuid>"}
//	  {"type":"mount","id":"t1","content":"...","className":"..."}
//	  {"type":"move","id":"t1","top":68,"left":85}
//	  {"type":"unmount","id":"t1"}
//	  {"type":"error","code":"E302","message":"..."}
//
// Showing is two-phase: the mount frame goes out first, the client
// renders the surface and answers with a measure frame, and only then is
// the position computed and sent. Closing the socket unmounts every
// tooltip, so no timer or layout subscription outlives the connection.
package live
