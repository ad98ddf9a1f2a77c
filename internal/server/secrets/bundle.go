package secrets

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophgallery/internal/common"
)

// Bundle holds the database credentials stored in the secret. Secrets created
// by RDS also carry engine and port, which are optional here.
type Bundle struct {
	Host     string      `json:"host"`
	DBName   string      `json:"dbname"`
	Username string      `json:"username"`
	Password string      `json:"password"`
	Port     json.Number `json:"port,omitempty"`
	Engine   string      `json:"engine,omitempty"`
}

// validate reports the first missing required field.
func (b *Bundle) validate() error {
	switch {
	case b.Host == "":
		return fmt.Errorf("%w: missing host", common.ErrSecretMalformed)
	case b.DBName == "":
		return fmt.Errorf("%w: missing dbname", common.ErrSecretMalformed)
	case b.Username == "":
		return fmt.Errorf("%w: missing username", common.ErrSecretMalformed)
	case b.Password == "":
		return fmt.Errorf("%w: missing password", common.ErrSecretMalformed)
	}
	return nil
}

// ParseString decodes the inline text form of a secret.
func ParseString(s string) (*Bundle, error) {
	return parseJSON([]byte(s))
}

// ParseBinary decodes the binary form of a secret: base64-encoded JSON.
// Raw JSON bytes are accepted as well, since SDK clients usually hand out
// the blob already decoded from the wire.
func ParseBinary(b []byte) (*Bundle, error) {
	trimmed := strings.TrimSpace(string(b))
	if decoded, err := base64.StdEncoding.DecodeString(trimmed); err == nil {
		return parseJSON(decoded)
	}
	return parseJSON([]byte(trimmed))
}

func parseJSON(data []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrSecretMalformed, err)
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return &b, nil
}
