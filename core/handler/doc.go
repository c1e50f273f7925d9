// Package handler defines the core types shared by the router, response
// constructors, and middleware: the request Context contract, the generic
// HandlerFunc, and the Response render function.
package handler
