// Package insights turns business KPIs into natural-language analysis by
// driving a two-responder fallback chain: a remote chat-completion API as
// primary, with a local model runtime as secondary. The chain always
// returns text to its caller; backend failures degrade the answer into a
// labeled diagnostic rather than propagating as errors, so report
// generation never fails solely because no model is reachable.
package insights
