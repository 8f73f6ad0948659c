// Package errors provides coded, actionable errors for the lexmart server
// and CLI.
//
// Every code maps to a registered template carrying a category, a short
// message, a longer explanation and a documentation link:
//
//   - E1xx config: loading and validating lexmart.json / lexmart.yaml
//   - E2xx upload: the media upload route and its stores
//   - E3xx live: the tooltip WebSocket session
//   - E4xx cli: command-line usage
//
// # Usage
//
//	err := errors.New("E103").
//	    WithLocation("lexmart.yaml", 4, 9).
//	    WithDetail(`port "80a" is not a number`).
//	    WithSuggestion("Set server.port to an integer between 1 and 65535")
//
//	fmt.Fprint(os.Stderr, err.Format())
//
// Errors wrap their cause, so errors.Is and errors.As see through them.
package errors
