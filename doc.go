// Package egress enforces which shape of a domain object may leave a handler.
//
// Handlers are free to return rich internal entities. Before a response is
// written, the Interceptor compares the value against the type the endpoint
// declares for the status code actually being sent, and only emits the output
// of a transform explicitly registered for that (entity, declared type) pair.
// Anything else is rejected as a server error, so unvetted fields never
// reach a caller.
//
// # Declarations
//
// Declarations are made on a Registry during bootstrap:
//
//	reg := egress.NewRegistry()
//
//	// User may be returned wherever UserPublic is declared.
//	egress.AllowReturnAs(reg, func(u User) UserPublic {
//	    return UserPublic{ID: u.ID, Email: u.Email}
//	})
//
//	// Health is safe to return as itself.
//	egress.AllowReturnAsSelf[Health](reg)
//
//	// Exempt an endpoint that writes framework-native payloads.
//	metrics := egress.NewEndpoint("metrics", nil, nil)
//	reg.OptOut(metrics)
//
// # Enforcement
//
//	ic, _ := egress.NewInterceptor(reg, egress.WithLogger(logger))
//
//	ep := egress.NewEndpoint("getUser", getUser, egress.Responses{
//	    200: egress.ResponseOf[UserPublic](),
//	})
//
//	out, err := ic.Intercept(ctx, ep, status, value)
//
// NewInterceptor seals the registry; later declarations fail with ErrSealed.
//
// For every result the interceptor:
//
//   - passes it through if the handler opted out
//   - passes it through if no type is declared for the status and the status is an error
//   - rejects if no type is declared for a success status
//   - rejects if the value's type has no transforms, or none to the declared type
//   - otherwise returns the transform's output
//
// Rejections are *MetadataError values matching ErrHandlerMetadata. They hold
// handler and type names for logs and must be rendered to clients as a
// generic server error. The web package does this for chi routers.
//
// # Shaping Tags
//
// Declared types may additionally tag string fields:
//
//	type UserPublic struct {
//	    ID    int    `json:"id"`
//	    Email string `json:"email" egress.mask:"email"`
//	    Token string `json:"token" egress.redact:"[REDACTED]"`
//	}
//
// With Config.Masking enabled the tags are applied to a copy of the transform
// output. Mask types: email, card, phone, ssn, name.
//
// # Codec Providers
//
// Response encoding is pluggable through Codec. Implementations live in the
// json, xml, yaml, msgpack and bson subpackages.
package egress

// Codec provides content-type aware marshaling.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}
