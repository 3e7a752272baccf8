// Package parse pulls JSON values out of unreliable model output.
//
// [ExtractJSON] applies the default strategy: strip markdown fences and try
// the whole text, then the outermost {..} span, then the outermost [..] span.
// An [Extractor] can additionally enable a string-aware balanced bracket scan
// and a jsonrepair pass; both are off by default so that truncated output is
// reported as a failure rather than silently completed.
//
// [ParseStringAs] and [ConvertAs] turn extracted text or values into typed
// entities.
package parse
