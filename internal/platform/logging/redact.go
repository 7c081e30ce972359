package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// bearerPattern matches an Authorization header value carrying the API key.
var bearerPattern = regexp.MustCompile(`(?i)^bearer\s+\S+$`)

// DefaultRedactOptions returns the masq options that keep the Lexoffice API
// key out of the logs, whether it is logged as a config field, a header map
// or a raw header value.
func DefaultRedactOptions() []masq.Option {
	return []masq.Option{
		masq.WithFieldName("Token"),
		masq.WithFieldName("token"),
		masq.WithFieldName("apiKey"),
		masq.WithFieldName("api_key"),
		masq.WithFieldName("Authorization"),
		masq.WithFieldName("authorization"),
		masq.WithFieldName("password"),
		masq.WithFieldPrefix("secret"),
		masq.WithRegex(bearerPattern),
	}
}

// NewReplaceAttr returns a slog ReplaceAttr func applying DefaultRedactOptions
// plus opts.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(DefaultRedactOptions(), opts...)...)
}
