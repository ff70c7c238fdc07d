// Package generation provides the boundary between the application core and
// the external image-generation vendors. It defines the Generator interface,
// the request/result types, and the classified error taxonomy, allowing the
// service layer to orchestrate generations without coupling to any specific
// vendor API.
package generation
