// Package http holds the plain-HTTP collaborators: the SearXNG search
// client and a renderer for pages that need no JavaScript.
package http

import "time"

// DefaultTimeout is the default timeout for HTTP requests.
const DefaultTimeout = 10 * time.Second

// DefaultUserAgent identifies requests made by this package.
const DefaultUserAgent = "ssmcp/1.0 (+https://github.com/fwojciec/ssmcp)"
