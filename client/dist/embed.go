package clientdist

import _ "embed"

// LiveJS is the browser runtime for server-positioned tooltips.
//
// It is served by the application at "/static/live.js". The script finds
// every element carrying a Tooltip hook, registers it over the WebSocket
// named by the body's data-live attribute, and applies mount, move and
// unmount frames to the overlay root.
//
//go:embed live.js
var LiveJS []byte

// LexmartCSS is the site stylesheet, served at "/static/lexmart.css".
//
//go:embed lexmart.css
var LexmartCSS []byte
