/*
	Package jsonrpc2 implements the client side of a newline-delimited JSON-RPC
	exchange, as spoken by the SL4A RPC server.

	Client assigns request IDs. IDs start at 0 and increase by one per request.

	Codec is the transport and framing. LineCodec frames each message as one
	line terminated by '\n'. Other codecs (see the ws subpackage) carry the
	same lines over different transports.

	Remote is a Codec and a Client. Each Call writes exactly one request line
	and reads exactly one response line. Calls on the same Remote are
	serialized, because the protocol correlates a response with its request
	only by send order.

	Responses are returned verbatim. Structured access to the id, result and
	error members is available when the line happens to be a JSON object.
*/
package jsonrpc2
