package templatesource

import (
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	"git.home.luguber.info/inful/pagebuilder/internal/config"
	"git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
)

// tokenUsername is accepted by the common hosting services for token auth.
const tokenUsername = "token"

// AuthMethod maps an auth config onto a go-git transport auth method.
// A nil config or type none yields a nil method.
func AuthMethod(a *config.AuthConfig) (transport.AuthMethod, error) {
	if a.IsZero() {
		return nil, nil
	}
	switch a.Type {
	case config.AuthTypeToken:
		if a.Token == "" {
			return nil, errors.ConfigError("token authentication requires a token").Build()
		}
		return &http.BasicAuth{Username: tokenUsername, Password: a.Token}, nil
	case config.AuthTypeBasic:
		if a.Username == "" || a.Password == "" {
			return nil, errors.ConfigError("basic authentication requires username and password").Build()
		}
		return &http.BasicAuth{Username: a.Username, Password: a.Password}, nil
	case config.AuthTypeSSH:
		keyPath := a.KeyPath
		if keyPath == "" {
			keyPath = filepath.Join(os.Getenv("HOME"), ".ssh", "id_rsa")
		}
		keys, err := ssh.NewPublicKeysFromFile("git", keyPath, a.Password)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "failed to load SSH key").
				WithContext("key_path", keyPath).Build()
		}
		return keys, nil
	default:
		return nil, errors.ConfigError("unsupported auth type").WithContext("type", string(a.Type)).Build()
	}
}
