package interfaces

// HistoryPort abstracts the browser address bar from the engine.
//
// A browser host (WASM shim, embedded webview) maps Push/Replace onto the
// History API and calls the registered listener on popstate. The in-memory
// adapter in internal/adapters/history backs tests and server-side use.
type HistoryPort interface {
	// Current returns the current query string, without a leading "?".
	Current() string

	// Push records query as a new history entry without a page load.
	Push(query string)

	// Replace overwrites the current history entry.
	Replace(query string)

	// Navigate performs a full page navigation to the given query string.
	// Used as the fallback-mode escape hatch when live queries are off.
	Navigate(query string)

	// OnPop registers the listener invoked when the host moves through
	// history (browser back/forward). Only one listener is kept.
	OnPop(fn func(query string))
}
