// Package client is the text-generation client used by the extraction
// orchestrator and the pipeline stages.
//
// A [Client] owns one configured [ai.Provider], a model name and generation
// parameters. Every call goes through a [Middleware] chain, so concerns such
// as per-call timeouts and request logging (see core/client/middleware) wrap
// the provider without the callers knowing. A client is built once and
// injected wherever text is generated.
package client
