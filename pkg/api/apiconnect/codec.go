// Package apiconnect wires the api messages into Connect handlers and
// clients for the Pagetally services.
package apiconnect

import (
	"encoding/json"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// Codec serializes api messages as plain JSON. It is registered under the
// "json" name, replacing Connect's protobuf JSON codec. The api messages are
// not protobuf messages, so handlers refuse every other codec up front.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// handlerOptions prepends the JSON codec to caller options.
func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

// clientOptions prepends the JSON codec to caller options.
func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
}

// jsonOnly answers 415 to requests encoded with anything but JSON. Connect
// keeps its default proto codec registered, and it cannot marshal api
// messages.
func jsonOnly(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if name := requestCodec(r); name != "" && name != (Codec{}).Name() {
			w.Header().Set("Accept-Post", "application/json")
			http.Error(w, "unsupported codec "+name+": only json is served", http.StatusUnsupportedMediaType)
			return
		}
		next(w, r)
	})
}

// requestCodec names the codec a Connect, gRPC or gRPC-Web request asks for.
// An empty result means the request did not say.
func requestCodec(r *http.Request) string {
	if r.Method == http.MethodGet {
		return r.URL.Query().Get("encoding")
	}
	ct, _, _ := strings.Cut(r.Header.Get("Content-Type"), ";")
	ct = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ct)), "application/")
	switch {
	case ct == "grpc" || ct == "grpc-web":
		return "proto"
	case strings.HasPrefix(ct, "grpc-web+"):
		return strings.TrimPrefix(ct, "grpc-web+")
	case strings.HasPrefix(ct, "grpc+"):
		return strings.TrimPrefix(ct, "grpc+")
	case strings.HasPrefix(ct, "connect+"):
		return strings.TrimPrefix(ct, "connect+")
	}
	return ct
}
