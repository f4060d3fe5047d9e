// Package api implements the devicekeeper HTTP server.
//
// This package provides:
//   - Account endpoints: register and login forms, POST /register,
//     POST /login and GET /users/me
//   - Device endpoints: list, create, read, partial update, password
//     rotation and delete under /devices
//   - Cookie authentication: a signed token in the Authorization cookie,
//     required on every route except the register, login and health pages
//   - Middleware stack (request ID, logging, recovery, body size limit, auth)
//
// Request bodies may be JSON or form-encoded; both are read the same way.
// Every error reply is a JSON object of the form {"error": "<message>"}.
//
// Successful account and device changes are reported to the audit recorder,
// which delivers them asynchronously. A missing or failing audit sink never
// changes the HTTP response.
//
// The server follows the same lifecycle as the infrastructure clients:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
package api
