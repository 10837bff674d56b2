// Package httpapi serves the SSO engine over HTTP with echo.
//
// Every operation is a POST with a JSON body. Success responses are
// {"status":200,"data":{...}}; failures are a bare status-coded text body
// such as "403 Ticket is not valid!". Any other route or method answers 404.
package httpapi
