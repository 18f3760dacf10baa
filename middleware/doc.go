// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware holds the HTTP plumbing shared by every drawjoy route.

The router wraps each route in WithLogging and the whole mux in CORS:

	mux.HandleFunc("POST /groups/{id}/draw", middleware.WithLogging(drawHandler.Draw))
	return middleware.CORS(mux)

# Request IDs and logging

WithLogging tags every request with an ID. It reuses an incoming
X-Request-ID and otherwise mints a UUID. The ID is echoed in the response
and attached to the completion log line. Rejected requests (4xx) log at
Warn and server faults (5xx) at Error, so a failed draw stands out from
routine traffic.

# Bodies and errors

Handlers decode through ParseJSONBody, which stops reading after 64 KiB.
BadBody turns its error into 413 for an oversized body and 400 for
anything else:

	var req models.JoinGroupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.BadBody(w, err)
		return
	}

Every failure is written by ErrorResponse as
{"error": "<status text>", "message": "..."}.

# CORS

Browsers only forward X-Admin-Key and X-Participant-Token when the
preflight lists them, so both are allowed alongside Content-Type. The
request ID header is exposed to scripts. Preflights answer 204.
*/
package middleware
