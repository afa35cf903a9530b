/*
Package serialhttp is a minimal in-process HTTP server.

It owns a listening socket, accepts connections one at a time, reads a single
request per connection, dispatches it by method and exact path to a registered
handler and closes the connection. There is no keep-alive, no chunked
encoding, no TLS and no header parsing beyond locating the body.

Quick Start

package main

import (
    "context"

    "github.com/searchktools/serialhttp/core"
    "github.com/searchktools/serialhttp/core/http"
)

func main() {
    engine := core.NewEngine()

    engine.GET("/hello", func(c *http.Conn, body string) {
        _ = c.Respond(http.StatusOK, "hi")
    })

    engine.Run(context.Background(), ":8080")
}

Wire format

Requests are read with a single receive into a 4096 byte buffer. The first two
whitespace-separated tokens are the method and path; everything after the
first blank line is the body. Method names fold case (GET, POST, PUT and
DELETE are supported); paths match byte for byte, query string included.

Responses always have the form

    HTTP/1.1 <status>\r\nContent-Length: <n>\r\n\r\n<body>

The server itself only produces "400 Bad Request" for a request with fewer
than two tokens and "404 Not Found" when no route matches. Every other status
line comes from the handlers.

Modules

  - app: application lifecycle, signals and the metrics endpoint
  - config: configuration from file, environment and flags
  - logging: slog logger construction
  - core: dispatcher and the accept loop
  - core/router: route registry
  - core/http: request parsing, response writing and the handler contract
  - core/bootstrap: listening socket setup and teardown
  - core/pools: receive buffer pool
  - core/observability: Prometheus metrics
*/
package serialhttp
